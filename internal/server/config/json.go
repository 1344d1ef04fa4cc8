package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keeper/internal/flagx"
	"github.com/dmitrijs2005/keeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "15m" and integer nanoseconds. Keys that are absent leave the current
// value untouched.
type JsonConfig struct {
	Env                         *string         `json:"env"`
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver              *string         `json:"database_driver"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	TokenAlgorithm              *string         `json:"token_algorithm"`
	SecretKey                   *string         `json:"secret_key"`
	PrivateKeyFile              *string         `json:"private_key_file"`
	PublicKeyFile               *string         `json:"public_key_file"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	LogConsoleLevel             *string         `json:"log_console_level"`
	LogFileLevel                *string         `json:"log_file_level"`
	LogFile                     *string         `json:"log_file"`
}

func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.Env, c.Env)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.TokenAlgorithm, c.TokenAlgorithm)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PrivateKeyFile, c.PrivateKeyFile)
	setString(&config.PublicKeyFile, c.PublicKeyFile)
	setString(&config.LogConsoleLevel, c.LogConsoleLevel)
	setString(&config.LogFileLevel, c.LogFileLevel)
	setString(&config.LogFile, c.LogFile)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
