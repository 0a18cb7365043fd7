package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"aifinverse-backend/config"
	"aifinverse-backend/internal/countries"
	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/metrics"
	"aifinverse-backend/internal/notifier"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/server"
	"aifinverse-backend/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	if err := database.InitDB(config.GetString("db_path")); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	metrics.Default().LoadFromDB()

	store := preferences.NewStore()
	countriesClient := countries.NewClient(config.GetString("countries_api_url"))

	startBot(store)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			metrics.Default().SaveToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		metrics.Default().SaveToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	go func() {
		if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
			log.Fatalf("Failed to start metrics and health server: %v", err)
		}
	}()

	api := server.New(store, countriesClient, config.GetString("telegram_bot_name"))
	port := config.GetInt("listen_port")
	log.Infof("Launching API server on :%d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), api.Routes()); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting aifinverse backend...")
}

// startBot brings up the telegram side: the update loop for /start linking
// and /alerts, and the notifier that pushes feed changes to linked chats.
// Without a token the API still runs, just without telegram delivery.
func startBot(store *preferences.Store) {
	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Warn("No telegram bot token configured, running without telegram delivery")
		return
	}

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		BotName:        config.GetString("telegram_bot_name"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	notifier.NewService(bot, store).Start()

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, store, updates)
}

func handleUpdates(bot *telegram.Bot, store *preferences.Store, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			log.Debug("Received non-message update")
			continue
		}
		if !update.Message.IsCommand() {
			continue
		}

		handleCommand(bot, store, update)
	}
}

func handleCommand(bot *telegram.Bot, store *preferences.Store, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      bot.HandleUpdate(update, store),
		MessageID: update.Message.MessageID,
	})
	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}
