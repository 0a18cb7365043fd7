package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("listen_port", "LISTEN_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_bot_name", "TELEGRAM_BOT_NAME")
		viper.BindEnv("countries_api_url", "COUNTRIES_API_URL")
		viper.BindEnv("otp_ttl_minutes", "OTP_TTL_MINUTES")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("listen_port", 8080)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("db_path", "/app/data/aifinverse.db")
		viper.SetDefault("telegram_bot_name", "Finversemsbot")
		viper.SetDefault("countries_api_url", "https://restcountries.com/v3.1")
		viper.SetDefault("otp_ttl_minutes", 10)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
