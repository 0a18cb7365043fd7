package telegram_test

import (
	"testing"

	"aifinverse-backend/internal/telegram"

	"github.com/stretchr/testify/assert"
)

func TestDeepLink(t *testing.T) {
	assert.Equal(t, "https://t.me/Finversemsbot?start=abc123",
		telegram.DeepLink("Finversemsbot", "abc123"))
}

func TestDeepLinkWithoutCodeOpensBot(t *testing.T) {
	assert.Equal(t, "https://t.me/Finversemsbot", telegram.DeepLink("Finversemsbot", ""))
}
