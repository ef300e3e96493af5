// Package config loads service settings from environment variables, with a
// .env file honored in development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WeatherBackend selects the weather reference-store implementation.
type WeatherBackend string

const (
	WeatherBackendMySQL  WeatherBackend = "mysql"
	WeatherBackendInflux WeatherBackend = "influx"
)

// MySQLConfig holds connection settings for the reference-data database.
type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// DSN renders the driver connection string.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// InfluxConfig holds settings for the InfluxDB weather backend.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	ModelPath string

	LookbackDays    int
	HorizonMinDays  int
	HorizonMaxDays  int
	StaticCacheSize int

	WeatherBackend WeatherBackend
	MySQL          MySQLConfig
	Influx         InfluxConfig

	// Kafka prediction publishing configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load() // absent .env is the normal production case

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := parsePositiveDuration("REQUEST_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	lookback, err := parsePositiveInt("LOOKBACK_DAYS", 30)
	if err != nil {
		return nil, err
	}
	horizonMin, err := parsePositiveInt("HORIZON_MIN_DAYS", 7)
	if err != nil {
		return nil, err
	}
	horizonMax, err := parsePositiveInt("HORIZON_MAX_DAYS", 30)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("STATIC_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RequestTimeout:  requestTimeout,

		ModelPath: envOrDefault("MODEL_PATH", "data/models/active.json"),

		LookbackDays:    lookback,
		HorizonMinDays:  horizonMin,
		HorizonMaxDays:  horizonMax,
		StaticCacheSize: cacheSize,

		WeatherBackend: WeatherBackend(envOrDefault("WEATHER_BACKEND", string(WeatherBackendMySQL))),
		MySQL: MySQLConfig{
			Host:     envOrDefault("MYSQL_HOST", "localhost"),
			Port:     envOrDefault("MYSQL_PORT", "3306"),
			User:     envOrDefault("MYSQL_USER", "wildfire"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Database: envOrDefault("MYSQL_DATABASE", "wildfire_reference"),
		},
		Influx: InfluxConfig{
			URL:    envOrDefault("INFLUX_URL", "http://localhost:8086"),
			Token:  os.Getenv("INFLUX_TOKEN"),
			Org:    envOrDefault("INFLUX_ORG", "wildfire"),
			Bucket: envOrDefault("INFLUX_BUCKET", "weather"),
		},

		KafkaEnabled:   kafkaEnabled,
		KafkaBrokers:   splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "wildfire-risk-predictions"),
	}

	switch cfg.WeatherBackend {
	case WeatherBackendMySQL, WeatherBackendInflux:
	default:
		return nil, fmt.Errorf("WEATHER_BACKEND must be %q or %q, got %q",
			WeatherBackendMySQL, WeatherBackendInflux, cfg.WeatherBackend)
	}

	switch cfg.LookbackDays {
	case 30, 60, 90:
	default:
		return nil, errors.New("LOOKBACK_DAYS must be 30, 60, or 90")
	}

	if cfg.HorizonMinDays > cfg.HorizonMaxDays {
		return nil, errors.New("HORIZON_MIN_DAYS must not exceed HORIZON_MAX_DAYS")
	}
	if cfg.ModelPath == "" {
		return nil, errors.New("MODEL_PATH is required")
	}
	if cfg.WeatherBackend == WeatherBackendInflux && cfg.Influx.Token == "" {
		return nil, errors.New("WEATHER_BACKEND is influx but INFLUX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
