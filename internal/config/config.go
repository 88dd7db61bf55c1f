package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"tunehub"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address  string `envconfig:"TUNEHUB_ADDRESS" default:":8080"`
	BaseUrl  string `envconfig:"TUNEHUB_BASE_URL" default:"http://localhost:8080"`
	LogLevel string `envconfig:"TUNEHUB_LOG_LEVEL" default:"info"`
	Auth     Auth
}

type Auth struct {
	// AuthenticationType selects the authenticator: "local" or "none".
	AuthenticationType string `envconfig:"TUNEHUB_AUTH" default:"local"`
	LocalSigningKey    string `envconfig:"TUNEHUB_SIGNING_KEY" default:""`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns a config suitable for tests: sqlite in memory and no
// authentication.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: ":memory:"},
		Service: &svcConfig{
			Address:  ":8080",
			LogLevel: "info",
			Auth:     Auth{AuthenticationType: "none"},
		},
	}
}
