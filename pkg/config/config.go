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

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T, files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return err
		}
	}

	return env.Parse(cfg)
}

// Config holds the configuration for the matcher.
type Config struct {
	Instrument  string               `env:"INSTRUMENT,required"` // Instrument traded by this book, e.g. BTC-USD
	LogLevel    string               `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string               `env:"HTTP_ADDR" envDefault:":8080"`
	KafkaConfig `envPrefix:"KAFKA_"` // Kafka configuration
	RedisConfig `envPrefix:"REDIS_"` // Redis configuration
}

// KafkaConfig holds the configuration for Kafka consumer and producer.
type KafkaConfig struct {
	Brokers     []string `env:"BROKERS,required"`
	OrderTopic  string   `env:"ORDER_TOPIC" envDefault:"orders"`
	ReportTopic string   `env:"REPORT_TOPIC" envDefault:"execution-reports"`
	GroupID     string   `env:"GROUP_ID" envDefault:"matcher"`
}

// RedisConfig holds the configuration for the market data Redis client.
type RedisConfig struct {
	Addrs    []string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string   `env:"PASSWORD" envDefault:""`
	Username string   `env:"USERNAME" envDefault:""`
	DB       int      `env:"DB" envDefault:"0"`
	Channel  string   `env:"CHANNEL" envDefault:"orderbook"`
}
