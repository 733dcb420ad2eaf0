package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC health bind address (e.g. ":50051")
//	-m string   mode: development | production
//	-l string   log level
//	-D string   database driver: postgres | sqlite
//	-d string   database DSN
//	-k string   directory holding the PEM key pairs
//	-t int      access token lifetime, minutes
//	-r int      refresh token lifetime, days
//	-v int      recovery token lifetime, minutes
//
// Only these flags are picked out of os.Args, so -c/-config and flags owned
// by other components do not make parsing fail.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-m", "-l", "-D", "-d", "-k", "-t", "-r", "-v"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.HealthAddrGRPC, "g", config.HealthAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.Mode, "m", config.Mode, "mode (development|production)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (postgres|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.KeysDir, "k", config.KeysDir, "PEM key directory")

	access := fs.Int("t", int(config.AccessTokenValidityDuration/time.Minute), "access token lifetime (minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration/day), "refresh token lifetime (days)")
	recovery := fs.Int("v", int(config.RecoveryTokenValidityDuration/time.Minute), "recovery token lifetime (minutes)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only flags that were given override durations, keeping sub-unit values intact
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refresh) * day
		case "v":
			config.RecoveryTokenValidityDuration = time.Duration(*recovery) * time.Minute
		}
	})
	return nil
}
