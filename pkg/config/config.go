package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // A missing .env file is fine, env vars may be set directly

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine service.
type Config struct {
	Symbol      string `env:"SYMBOL,required"` // Trading symbol, e.g. BTC-USDT
	DepthLevels int    `env:"DEPTH_LEVELS" envDefault:"10"`

	KafkaConfig          `envPrefix:"KAFKA_"`
	MatchPublisherConfig `envPrefix:"MATCH_"`
	RedisConfig          `envPrefix:"REDIS_"`
	LedgerConfig         `envPrefix:"LEDGER_"`
}

// KafkaConfig holds the configuration for the order stream consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// MatchPublisherConfig holds the configuration for the match event producer.
type MatchPublisherConfig struct {
	Topic   string   `env:"TOPIC" envDefault:"matches"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addrs          string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password       string `env:"PASSWORD" envDefault:""`
	Username       string `env:"USERNAME" envDefault:""`
	DB             int    `env:"DB" envDefault:"0"`
	TradeChannel   string `env:"TRADE_CHANNEL" envDefault:"trade_events"`
	BBOChannel     string `env:"BBO_CHANNEL" envDefault:"bbo_updates"`
	DepthChannel   string `env:"DEPTH_CHANNEL" envDefault:"order_book_updates"`
	SnapshotPrefix string `env:"SNAPSHOT_PREFIX" envDefault:"book_snapshot:"`
}

// LedgerConfig holds the configuration for the trade ledger store.
type LedgerConfig struct {
	Dir string `env:"DIR" envDefault:"data/ledger"`
}
