// Package config assembles the server settings. Sources are applied in
// order, each overriding the previous one: built-in defaults, an optional
// JSON file (-c/-config), the environment (a .env file is loaded first), and
// finally command-line flags. The result is validated before use.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the keeper server.
type Config struct {
	Env string `validate:"required,oneof=dev prod"`

	EndpointAddrHTTP string `validate:"required"`
	EndpointAddrGRPC string `validate:"required"`

	DatabaseDriver string `validate:"required,oneof=pgx sqlite"`
	DatabaseDSN    string `validate:"required"`

	// TokenAlgorithm selects how access tokens are signed. HS256 needs
	// SecretKey; RS256 and ES256 need key files.
	TokenAlgorithm              string        `validate:"required,oneof=HS256 RS256 ES256"`
	SecretKey                   string        `validate:"required_if=TokenAlgorithm HS256"`
	PrivateKeyFile              string        `validate:"required_if=TokenAlgorithm RS256,required_if=TokenAlgorithm ES256"`
	PublicKeyFile               string        `validate:"required_if=TokenAlgorithm RS256,required_if=TokenAlgorithm ES256"`
	AccessTokenValidityDuration time.Duration `validate:"gt=0"`

	LogConsoleLevel string `validate:"required,oneof=debug info warn error"`
	LogFileLevel    string `validate:"required,oneof=debug info warn error"`
	LogFile         string
}

// LoadDefaults populates c with development defaults. The secret is not
// fit for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.Env = "dev"
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:keeper.db?_pragma=foreign_keys(1)"
	c.TokenAlgorithm = "HS256"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.LogConsoleLevel = "info"
	c.LogFileLevel = "debug"
}

var validate = validator.New()

// Validate reports the first set of invalid fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from args (usually os.Args[1:]) and the
// process environment.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
