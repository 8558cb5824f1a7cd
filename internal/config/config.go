package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrEmptyStoragePath = errors.New(
	"error getting CS_STORAGE_PATH: variable not specified or contains an empty string")

type Config struct {
	Env          string // Env is the current environment: local, dev, prod.
	HTTPAddr     string
	StoragePath  string
	FetchTimeout time.Duration
	Gemini       Gemini
	Telegram     Telegram
}

// Gemini holds the synthesis backend settings. An empty APIKey disables
// synthesis entirely; reports are then created without AI fields.
type Gemini struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Telegram holds the optional change-notifier settings. Notifications
// are disabled unless both Token and ChatID are set.
type Telegram struct {
	Token  string
	ChatID int64
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("CS")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("FETCH_TIMEOUT", "20s")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("SYNTH_TIMEOUT", "30s")

	if viper.GetString("STORAGE_PATH") == "" {
		panic(ErrEmptyStoragePath)
	}

	return &Config{
		Env:          viper.GetString("ENV"),
		HTTPAddr:     viper.GetString("HTTP_ADDR"),
		StoragePath:  viper.GetString("STORAGE_PATH"),
		FetchTimeout: viper.GetDuration("FETCH_TIMEOUT"),
		Gemini: Gemini{
			APIKey:  viper.GetString("GEMINI_API_KEY"),
			Model:   viper.GetString("GEMINI_MODEL"),
			Timeout: viper.GetDuration("SYNTH_TIMEOUT"),
		},
		Telegram: Telegram{
			Token:  viper.GetString("TELEGRAM_TOKEN"),
			ChatID: viper.GetInt64("TELEGRAM_CHAT_ID"),
		},
	}
}
