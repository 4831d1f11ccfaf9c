package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	BotUsername string `envconfig:"BOT_USERNAME" required:"true"` // without the leading @
	BaseURL     string `envconfig:"BASE_URL" required:"true"`     // web app base, e.g. https://letsmeetup.app/
	DBPath      string `envconfig:"DB_PATH" default:"./data/meetup.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Meetups older than PurgeAfter are deleted on the PurgeSchedule
	// (standard 5-field cron spec). 2160h is ~3 months.
	PurgeAfter    time.Duration `envconfig:"PURGE_AFTER" default:"2160h"`
	PurgeSchedule string        `envconfig:"PURGE_SCHEDULE" default:"0 0 * * *"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	return cfg, nil
}
