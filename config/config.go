package config

import (
	"github.com/spf13/viper"
	"sync"
	"time"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("sheet_id", "SHEET_ID")
		viper.BindEnv("worksheet_name", "WORKSHEET_NAME")
		viper.BindEnv("credentials_file", "CREDENTIALS_FILE")
		viper.BindEnv("poll_interval", "POLL_INTERVAL")
		viper.BindEnv("initial_delay", "INITIAL_DELAY")
		viper.BindEnv("fetch_timeout", "FETCH_TIMEOUT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("worksheet_name", "Preços")
		viper.SetDefault("credentials_file", "credentials.json")
		viper.SetDefault("poll_interval", 60)
		viper.SetDefault("initial_delay", 10)
		viper.SetDefault("fetch_timeout", 15)
		viper.SetDefault("db_path", "/app/data/bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "pt_BR")
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

// GetSeconds reads an integer number of seconds as a duration.
func GetSeconds(key string) time.Duration {
	InitConfig()
	return time.Duration(viper.GetInt(key)) * time.Second
}
