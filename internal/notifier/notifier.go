package notifier

import (
	"fmt"
	"log"
	"sync"
	"time"

	"aifinverse-backend/internal/alerts"
	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/metrics"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/telegram"
	"aifinverse-backend/internal/types"
	"aifinverse-backend/lib/helpers"

	"github.com/dustin/go-humanize"
)

// deliveryMutex ensures only one delivery pass runs at a time
var deliveryMutex sync.Mutex

// Service pushes refreshed alert feeds to linked telegram chats whenever a
// user's strategy selection changes.
type Service struct {
	bot   *telegram.Bot
	store *preferences.Store
}

func NewService(bot *telegram.Bot, store *preferences.Store) *Service {
	return &Service{bot: bot, store: store}
}

// Start subscribes to the preference change bus and delivers in the
// background until the process exits.
func (s *Service) Start() {
	changes := s.store.Subscribe()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("🔥 Panic recovered in notifier: %v. Restarting notifier in 10 seconds...\n", r)
				time.Sleep(10 * time.Second)
				go s.Start()
			}
		}()

		for change := range changes {
			deliveryMutex.Lock()
			s.deliver(change)
			deliveryMutex.Unlock()
		}
	}()

	log.Println("🚀 Alert notifier started.")
}

// deliver sends the refreshed feed for one change to every linked chat.
// Only strategy and market changes produce a notification.
func (s *Service) deliver(change types.Change) {
	if change.Field != "strategies" && change.Field != "markets" {
		return
	}

	chats, err := database.GetChatsByEmail(change.Email)
	if err != nil {
		log.Printf("❌ Failed to fetch chat links for %s: %v\n", change.Email, err)
		return
	}
	if len(chats) == 0 {
		return
	}

	selected := s.store.GetMarketStrategies(change.Email, change.Market)
	visible := alerts.Visible(alerts.Catalog(change.Market), selected, nil)

	if len(visible) == 0 {
		for _, chatID := range chats {
			err := s.bot.SendMessage(telegram.Message{
				ChatID: chatID,
				Text: fmt.Sprintf(
					"🔕 No %s alerts match your strategies anymore\\.",
					helpers.EscapeMarkdownV2(preferences.MarketName(change.Market)),
				),
			})
			if err != nil {
				log.Printf("❌ Failed to send empty-feed notice: %v\n", err)
			}
		}
		return
	}

	key := cacheKey(change.Market, selected)
	item, found := cacheGet(key)
	if !found {
		chartData, err := renderFeedChart(preferences.MarketName(change.Market), visible)
		if err != nil {
			log.Printf("❌ Failed to render feed chart: %v\n", err)
			return
		}
		item = cacheSet(key, chartData, 5*time.Minute)
	}

	caption := s.caption(change.Market, visible, item.RenderedAt)

	for _, chatID := range chats {
		err := s.bot.SendPhoto(telegram.Photo{
			ChatID:  chatID,
			Name:    "feed.png",
			Bytes:   item.ChartData,
			Caption: caption,
		})
		if err != nil {
			log.Printf("❌ Failed to send feed notification: %v\n", err)
			continue
		}
		metrics.Default().AlertNotificationsTotal.Inc()
		log.Printf("✅ Feed notification sent to Chat ID: %d\n", chatID)
	}
}

func (s *Service) caption(market string, visible []types.AlertRecord, renderedAt time.Time) string {
	header := fmt.Sprintf(
		"🚨 *%s Alerts Updated*\nRendered %s\n\n",
		helpers.EscapeMarkdownV2(preferences.MarketName(market)),
		helpers.EscapeMarkdownV2(humanize.Time(renderedAt)),
	)

	body := ""
	for _, rec := range visible {
		body += fmt.Sprintf(
			"▫️ *%s* %s \\(%s\\)\n",
			helpers.EscapeMarkdownV2(rec.Stock),
			helpers.EscapeMarkdownV2(rec.Price),
			helpers.EscapeMarkdownV2(rec.Change),
		)
	}
	return header + body
}
