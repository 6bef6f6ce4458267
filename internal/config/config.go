package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ShopCookie is the session cookie the scrapers authenticate with.
	// There is no anonymous view of the shop, so it's required.
	ShopCookie string `envconfig:"SOM_COOKIE" required:"true"`

	// SlackChannelID is the channel every notification batch is posted to.
	SlackChannelID string `envconfig:"SLACK_CHANNEL_ID" required:"true"`

	// SlackToken is the bot (xoxb) token for chat.postMessage.
	SlackToken string `envconfig:"SLACK_XOXB" required:"true"`

	// MasterKey guards POST /api/check.
	MasterKey string `envconfig:"MASTER_KEY" required:"true"`

	// SnapshotPath is where the last-known item set lives on disk.
	SnapshotPath string `envconfig:"OLD_ITEMS_PATH" default:"items.json"`

	// BlocksLogPath, when set, receives the rendered block JSON of every
	// run that produced notifications. Debug aid, off by default.
	BlocksLogPath string `envconfig:"BLOCKS_LOG_PATH"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `envconfig:"SENTRY_DSN"`

	// ListenAddr is the control-surface bind address.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// ShopRoot is the shop origin. Overridable so tests can point the
	// scrapers at a local server.
	ShopRoot string `envconfig:"SHOP_ROOT" default:"https://summer.hackclub.com"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// 1. Try to load .env file (if it exists)
	// In production the vars are injected directly and there is no file.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	// 2. Process Environment Variables (System + Loaded from .env)
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
