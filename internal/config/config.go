package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DatabaseTypePostgres = "pgsql"
	DatabaseTypeSqlite   = "sqlite"
)

var singleConfig *Config = nil

type Config struct {
	Database *DbConfig
	Service  *SvcConfig
}

type DbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"tracker"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type SvcConfig struct {
	Address         string   `envconfig:"TRACKER_ADDRESS" default:":8000"`
	MetricsAddress  string   `envconfig:"TRACKER_METRICS_ADDRESS" default:":8080"`
	LogLevel        string   `envconfig:"TRACKER_LOG_LEVEL" default:"info"`
	LogFormat       string   `envconfig:"TRACKER_LOG_FORMAT" default:"console"`
	MigrationFolder string   `envconfig:"TRACKER_MIGRATIONS_FOLDER" default:""`
	AllowedOrigins  []string `envconfig:"TRACKER_ALLOWED_ORIGINS" default:"*"`
	Auth            Auth
	Events          Events
	Metrics         Metrics
}

type Auth struct {
	AuthenticationType string `envconfig:"TRACKER_AUTH" default:"none"`
	// SigningKey is the HMAC secret used by the "local" authenticator.
	SigningKey string `envconfig:"TRACKER_AUTH_SIGNING_KEY" default:""`
	// JwkURL is where the "sso" authenticator fetches the identity provider keys.
	JwkURL string `envconfig:"TRACKER_AUTH_JWK_URL" default:""`
}

type Events struct {
	Enabled bool   `envconfig:"TRACKER_EVENTS_ENABLED" default:"true"`
	Topic   string `envconfig:"TRACKER_EVENTS_TOPIC" default:"forecast.jobs.events"`
	Kafka   Kafka
}

// Kafka events are written to stdout when no broker is configured.
type Kafka struct {
	Brokers  []string `envconfig:"TRACKER_KAFKA_BROKERS" default:""`
	Version  string   `envconfig:"TRACKER_KAFKA_VERSION" default:""`
	ClientID string   `envconfig:"TRACKER_KAFKA_CLIENT_ID" default:"job-tracker"`
}

type Metrics struct {
	RefreshInterval time.Duration `envconfig:"TRACKER_METRICS_REFRESH_INTERVAL" default:"30s"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a fresh, non-shared configuration built from the
// environment and defaults. It panics when the environment cannot be parsed.
func NewDefault() *Config {
	cfg := new(Config)
	envconfig.MustProcess("", cfg)
	return cfg
}

// NewSqlite is used by tests and local development.
func NewSqlite(name string) *Config {
	cfg := NewDefault()
	cfg.Database.Type = DatabaseTypeSqlite
	cfg.Database.Name = name
	return cfg
}
