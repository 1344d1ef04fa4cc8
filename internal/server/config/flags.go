package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/keeper/internal/flagx"
)

// parseFlags applies command-line overrides.
//
//	-l string   HTTP bind address
//	-a string   gRPC bind address
//	-n string   database driver (pgx, sqlite)
//	-d string   database DSN
//	-s string   HS256 secret key
//	-t int      access token validity, minutes
//	-e string   environment (dev, prod)
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-l", "-a", "-n", "-d", "-s", "-t", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDriver, "n", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Env, "e", config.Env, "environment")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
