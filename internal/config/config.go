package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"planner"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address            string   `envconfig:"RACK_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress     string   `envconfig:"RACK_PLANNER_METRICS_ADDRESS" default:":8080"`
	LogLevel           string   `envconfig:"RACK_PLANNER_LOG_LEVEL" default:"info"`
	MigrationFolder    string   `envconfig:"RACK_PLANNER_MIGRATIONS_FOLDER" default:""`
	DefaultRackHeight  int      `envconfig:"RACK_PLANNER_DEFAULT_RACK_HEIGHT" default:"42"`
	AllowedOrigins     []string `envconfig:"RACK_PLANNER_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	MaxBatchSize       int      `envconfig:"RACK_PLANNER_MAX_BATCH_SIZE" default:"1000"`
	AuditEventsEnabled bool     `envconfig:"RACK_PLANNER_AUDIT_EVENTS" default:"true"`
	AuditTopic         string   `envconfig:"RACK_PLANNER_AUDIT_TOPIC" default:"rack-planner.audit"`
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

// NewDefault returns a configuration backed by an in-memory sqlite database.
// It is meant for tests and local experiments.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared&_foreign_keys=on",
		},
		Service: &svcConfig{
			Address:            ":3443",
			MetricsAddress:     ":8080",
			LogLevel:           "info",
			DefaultRackHeight:  42,
			MaxBatchSize:       1000,
			AuditEventsEnabled: true,
			AuditTopic:         "rack-planner.audit",
		},
	}
}
