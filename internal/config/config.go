package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/flexprice/paymirror/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Kafka      KafkaConfig
	Ingestion  IngestionConfig `validate:"required"`
	Cache      CacheConfig
	PayPal     PayPalConfig `validate:"required"`
	OpenAM     OpenAMConfig
	Sentry     SentryConfig
	Pyroscope  PyroscopeConfig
	Archive    ArchiveConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"required"`
	User            string `validate:"required"`
	Password        string
	DBName          string `validate:"required"`
	SSLMode         string
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string `mapstructure:"consumer_group"`
	ClientID      string `mapstructure:"client_id"`
	TLS           bool
	UseSASL       bool   `mapstructure:"use_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism"`
	SASLUser      string `mapstructure:"sasl_user"`
	SASLPassword  string `mapstructure:"sasl_password"`
}

// IngestionConfig controls the queue transport for provider notifications
type IngestionConfig struct {
	Enabled         bool
	PubSub          types.PubSubType `mapstructure:"pubsub" validate:"omitempty,oneof=memory kafka"`
	Topic           string
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type CacheConfig struct {
	Enabled      bool
	SeenEventTTL time.Duration `mapstructure:"seen_event_ttl"`
}

type PayPalConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	RateLimit float64       `mapstructure:"rate_limit"`
	RateBurst int           `mapstructure:"rate_burst"`
}

type OpenAMConfig struct {
	Enabled bool
	BaseURL string        `mapstructure:"base_url" validate:"required_if=Enabled true"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string   `mapstructure:"server_address" validate:"required_if=Enabled true"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	ProfileTypes    []string `mapstructure:"profile_types"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
}

// ArchiveConfig enables copying first-seen notifications to object storage
type ArchiveConfig struct {
	Enabled bool
	Bucket  string `validate:"required_if=Enabled true"`
	Region  string
	Prefix  string
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paymirror")

	v.SetEnvPrefix("PAYMIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.connect_timeout", 30*time.Second)
	v.SetDefault("ingestion.pubsub", types.MemoryPubSub)
	v.SetDefault("ingestion.topic", "paypal_notifications")
	v.SetDefault("ingestion.max_retries", 3)
	v.SetDefault("ingestion.initial_interval", time.Second)
	v.SetDefault("ingestion.max_interval", 10*time.Second)
	v.SetDefault("ingestion.multiplier", 2.0)
	v.SetDefault("ingestion.max_elapsed_time", 2*time.Minute)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.seen_event_ttl", 30*time.Minute)
	v.SetDefault("paypal.base_url", "https://api.sandbox.paypal.com")
	v.SetDefault("paypal.timeout", 30*time.Second)
	v.SetDefault("paypal.retry_max", 3)
	v.SetDefault("paypal.rate_limit", 20.0)
	v.SetDefault("paypal.rate_burst", 5)
	v.SetDefault("openam.timeout", 10*time.Second)
	v.SetDefault("pyroscope.application_name", "paymirror")
	v.SetDefault("pyroscope.sample_rate", 100)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Ingestion: IngestionConfig{
			PubSub: types.MemoryPubSub,
			Topic:  "paypal_notifications",
		},
		Cache: CacheConfig{
			Enabled:      true,
			SeenEventTTL: 30 * time.Minute,
		},
		PayPal: PayPalConfig{
			BaseURL:  "https://api.sandbox.paypal.com",
			Timeout:  30 * time.Second,
			RetryMax: 3,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetMigrationURL returns the URL form golang-migrate expects
func (c PostgresConfig) GetMigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}
