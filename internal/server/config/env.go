package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "KEEPER_"

// envFile is loaded if present. Variables already set in the process win.
var envFile = ".env"

func parseEnv(config *Config) error {
	_ = godotenv.Load(envFile)

	strs := map[string]*string{
		"ENV":               &config.Env,
		"HTTP_ADDR":         &config.EndpointAddrHTTP,
		"GRPC_ADDR":         &config.EndpointAddrGRPC,
		"DB_DRIVER":         &config.DatabaseDriver,
		"DATABASE_DSN":      &config.DatabaseDSN,
		"TOKEN_ALGORITHM":   &config.TokenAlgorithm,
		"SECRET_KEY":        &config.SecretKey,
		"PRIVATE_KEY_FILE":  &config.PrivateKeyFile,
		"PUBLIC_KEY_FILE":   &config.PublicKeyFile,
		"LOG_CONSOLE_LEVEL": &config.LogConsoleLevel,
		"LOG_FILE_LEVEL":    &config.LogFileLevel,
		"LOG_FILE":          &config.LogFile,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "ACCESS_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sACCESS_TOKEN_TTL: %w", EnvPrefix, err)
		}
		config.AccessTokenValidityDuration = d
	}
	return nil
}
