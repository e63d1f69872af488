package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Sections and keys are separated
// by a double underscore: POS_DATABASE__HOST, POS_PRINTER__MIN_INTERVAL.
const EnvPrefix = "POS_"

// Config holds all configuration for the POS system
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Broker   BrokerConfig   `koanf:"broker"`
	RabbitMQ RabbitMQConfig `koanf:"rabbitmq"`
	NATS     NATSConfig     `koanf:"nats"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Printer  PrinterConfig  `koanf:"printer"`
	Shop     ShopConfig     `koanf:"shop"`
}

type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// StorageConfig selects the backend for the drafts and orders collections:
// file, memory, postgres, redis or mongo.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	Dir    string `koanf:"dir"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	SSLMode  string `koanf:"sslmode"`
}

type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

// BrokerConfig selects the event bus driver: local, rabbitmq, nats or kafka.
type BrokerConfig struct {
	Driver string `koanf:"driver"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Prefetch int    `koanf:"prefetch"`
}

type NATSConfig struct {
	URL string `koanf:"url"`
}

type KafkaConfig struct {
	Brokers string `koanf:"brokers"`
	GroupID string `koanf:"group_id"`
}

// PrinterConfig describes the receipt printer. An empty device skips the USB
// transport and prints straight to the spool.
type PrinterConfig struct {
	Device      string        `koanf:"device"`
	Timeout     time.Duration `koanf:"timeout"`
	MinInterval time.Duration `koanf:"min_interval"`
	SpoolDir    string        `koanf:"spool_dir"`
	Columns     int           `koanf:"columns"`
}

// ShopConfig is printed on the receipt header
type ShopConfig struct {
	Name    string `koanf:"name"`
	Phone   string `koanf:"phone"`
	Address string `koanf:"address"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"http.port":             3000,
		"http.shutdown_timeout": "10s",
		"log.level":             "info",
		"storage.driver":        "file",
		"storage.dir":           "data",
		"database.host":         "localhost",
		"database.port":         5432,
		"database.user":         "pos",
		"database.password":     "pos",
		"database.database":     "pos",
		"database.sslmode":      "disable",
		"redis.addr":            "localhost:6379",
		"redis.db":              0,
		"redis.key_prefix":      "pos:",
		"mongo.uri":             "mongodb://localhost:27017",
		"mongo.database":        "pos",
		"broker.driver":         "local",
		"rabbitmq.host":         "localhost",
		"rabbitmq.port":         5672,
		"rabbitmq.user":         "guest",
		"rabbitmq.password":     "guest",
		"rabbitmq.prefetch":     1,
		"nats.url":              "nats://localhost:4222",
		"kafka.brokers":         "localhost:9092",
		"kafka.group_id":        "pos-print",
		"printer.device":        "",
		"printer.timeout":       "5s",
		"printer.min_interval":  "500ms",
		"printer.spool_dir":     "spool",
		"printer.columns":       48,
		"shop.name":             "Cantinho",
	}
}

// Load builds the configuration from built-in defaults, the YAML file at
// path (skipped when path is empty), a .env file when present and POS_*
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           cfg,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// DatabaseURL returns the PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Database,
		RawQuery: "sslmode=" + c.Database.SSLMode,
	}
	return u.String()
}

// RabbitMQURL returns the RabbitMQ connection URL
func (c *Config) RabbitMQURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.RabbitMQ.User, c.RabbitMQ.Password),
		Host:   fmt.Sprintf("%s:%d", c.RabbitMQ.Host, c.RabbitMQ.Port),
		Path:   "/",
	}
	return u.String()
}

// BrokerList splits the comma separated kafka brokers
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
