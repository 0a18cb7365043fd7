package telegram

import (
	"fmt"
	"strings"

	"aifinverse-backend/internal/alerts"
	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/lib/helpers"
	"aifinverse-backend/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// DeepLink builds the t.me link a user opens to bind their chat to their
// account. The completion happens out-of-band when the bot receives /start.
// Without a code the link just opens the bot.
func DeepLink(botName, code string) string {
	if code == "" {
		return fmt.Sprintf("https://t.me/%s", botName)
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", botName, code)
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// SendPhoto sends a rendered chart image with caption
func (b *Bot) SendPhoto(p Photo) error {
	photo := tgbotapi.NewPhoto(p.ChatID, tgbotapi.FileBytes{
		Name:  p.Name,
		Bytes: p.Bytes,
	})
	photo.Caption = p.Caption
	photo.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(photo)
	return errors.Wrapf(err, "could not send photo to chat %d", p.ChatID)
}

// HandleUpdate processes telegram updates: /start <code> links the chat to
// an account, /alerts replies with the current filtered feed.
func (b *Bot) HandleUpdate(u tgbotapi.Update, store *preferences.Store) string {
	text := helpers.EscapeMarkdownV2(translation.Translate("Send /start with your link code, or /alerts for your feed."))
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start":
		code := strings.TrimSpace(u.Message.CommandArguments())
		if code == "" {
			return helpers.EscapeMarkdownV2(translation.Translate("Open the link from your profile page to connect alerts."))
		}

		email, err := database.ConsumeLinkCode(code)
		if err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2(translation.Translate("Linking failed. Please try again later."))
		}
		if email == "" {
			return helpers.EscapeMarkdownV2(translation.Translate("That link has expired. Generate a new one from your profile."))
		}

		if err := database.LinkChat(u.Message.Chat.ID, email); err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2(translation.Translate("Linking failed. Please try again later."))
		}
		return helpers.EscapeMarkdownV2(translation.Translate("Connected! You will receive alerts for your selected strategies here."))

	case "alerts":
		email, err := database.GetChatEmail(u.Message.Chat.ID)
		if err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2(translation.Translate("Could not fetch your alerts. Please try again later."))
		}
		if email == "" {
			return helpers.EscapeMarkdownV2(translation.Translate("This chat is not linked to an account yet. Use the link from your profile page."))
		}
		return b.feedText(email, store)
	}

	return text
}

// feedText renders the user's filtered feed across unlocked markets.
func (b *Bot) feedText(email string, store *preferences.Store) string {
	profile := store.Load(email)

	var out strings.Builder
	total := 0
	for _, market := range profile.SelectedMarkets {
		visible := alerts.Visible(alerts.Catalog(market), profile.MarketPreferences[market], nil)
		if len(visible) == 0 {
			continue
		}

		out.WriteString(fmt.Sprintf("*%s*\n", helpers.EscapeMarkdownV2(preferences.MarketName(market))))
		for _, rec := range visible {
			out.WriteString(fmt.Sprintf(
				"▫️ *%s* %s \\(%s, RSI %s %s\\) %s\n",
				helpers.EscapeMarkdownV2(rec.Stock),
				helpers.EscapeMarkdownV2(rec.Price),
				helpers.EscapeMarkdownV2(rec.Change),
				helpers.EscapeMarkdownV2(rec.RSI),
				helpers.EscapeMarkdownV2(rec.RSIStatus),
				helpers.EscapeMarkdownV2(rec.Time),
			))
			total++
		}
		out.WriteString("\n")
	}

	if total == 0 {
		return helpers.EscapeMarkdownV2(translation.Translate("No alerts match your selected strategies."))
	}
	return out.String()
}
