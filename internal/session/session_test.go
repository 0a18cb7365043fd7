package session_test

import (
	"path/filepath"
	"testing"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { database.CloseDB() })
}

func createUser(t *testing.T, email string) {
	t.Helper()
	_, err := database.InsertUser(email, "Test", "User", "India", "x")
	require.NoError(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	setupDB(t)
	createUser(t, "a@example.com")

	s, err := session.Issue("a@example.com")
	require.NoError(t, err)
	assert.Contains(t, s.Token, "token_")

	got, err := session.Validate(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	setupDB(t)

	for _, token := range []string{"", "not-a-token", "token_unknown"} {
		_, err := session.Validate(token)
		assert.ErrorIs(t, err, session.ErrInvalidToken, token)
	}
}

func TestLogoutDestroysAllSessions(t *testing.T) {
	setupDB(t)
	createUser(t, "b@example.com")

	first, err := session.Issue("b@example.com")
	require.NoError(t, err)
	second, err := session.Issue("b@example.com")
	require.NoError(t, err)

	require.NoError(t, session.Logout(first.Token))

	_, err = session.Validate(first.Token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
	_, err = session.Validate(second.Token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestLogoutKeepsPlan(t *testing.T) {
	setupDB(t)
	createUser(t, "premium@example.com")

	require.NoError(t, session.SetPlan("premium@example.com", session.PlanPremium))

	s, err := session.Issue("premium@example.com")
	require.NoError(t, err)
	require.NoError(t, session.Logout(s.Token))

	// Logging out does not downgrade the account.
	assert.Equal(t, session.PlanPremium, session.Plan("premium@example.com"))
}

func TestPlanUnknownAccount(t *testing.T) {
	setupDB(t)
	assert.Empty(t, session.Plan("ghost@example.com"))
}
