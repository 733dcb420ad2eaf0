package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is pre-filled from the current Config so that variables missing
// from the environment leave values untouched. Lifetimes stay nil when unset.
type envConfig struct {
	Mode           string `env:"APP_MODE"`
	LogLevel       string `env:"LOG_LEVEL"`
	HTTPAddr       string `env:"HTTP_ADDR"`
	HealthAddrGRPC string `env:"GRPC_HEALTH_ADDR"`

	DatabaseDriver string `env:"DATABASE_DRIVER"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	RefreshStore  string `env:"REFRESH_STORE"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	KeySource      string `env:"KEY_SOURCE"`
	KeysDir        string `env:"KEYS_DIR"`
	S3RootUser     string `env:"S3_ROOT_USER"`
	S3RootPassword string `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3KeyPrefix    string `env:"S3_KEY_PREFIX"`

	CookieDomain string `env:"COOKIE_DOMAIN"`

	AccessTokenMinutes   *int `env:"ACCESS_TOKEN_EXPIRATION_MINUTES"`
	RefreshTokenDays     *int `env:"REFRESH_TOKEN_EXPIRATION_DAYS"`
	RecoveryTokenMinutes *int `env:"RECOVERY_TOKEN_EXPIRATION_MINUTES"`
}

const day = 24 * time.Hour

func parseEnv(c *Config) error {
	ec := envConfig{
		Mode:           c.Mode,
		LogLevel:       c.LogLevel,
		HTTPAddr:       c.HTTPAddr,
		HealthAddrGRPC: c.HealthAddrGRPC,
		DatabaseDriver: c.DatabaseDriver,
		DatabaseDSN:    c.DatabaseDSN,
		RefreshStore:   c.RefreshStore,
		RedisAddr:      c.RedisAddr,
		RedisPassword:  c.RedisPassword,
		RedisDB:        c.RedisDB,
		KeySource:      c.KeySource,
		KeysDir:        c.KeysDir,
		S3RootUser:     c.S3RootUser,
		S3RootPassword: c.S3RootPassword,
		S3Bucket:       c.S3Bucket,
		S3Region:       c.S3Region,
		S3BaseEndpoint: c.S3BaseEndpoint,
		S3KeyPrefix:    c.S3KeyPrefix,
		CookieDomain:   c.CookieDomain,
	}

	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	c.Mode = ec.Mode
	c.LogLevel = ec.LogLevel
	c.HTTPAddr = ec.HTTPAddr
	c.HealthAddrGRPC = ec.HealthAddrGRPC
	c.DatabaseDriver = ec.DatabaseDriver
	c.DatabaseDSN = ec.DatabaseDSN
	c.RefreshStore = ec.RefreshStore
	c.RedisAddr = ec.RedisAddr
	c.RedisPassword = ec.RedisPassword
	c.RedisDB = ec.RedisDB
	c.KeySource = ec.KeySource
	c.KeysDir = ec.KeysDir
	c.S3RootUser = ec.S3RootUser
	c.S3RootPassword = ec.S3RootPassword
	c.S3Bucket = ec.S3Bucket
	c.S3Region = ec.S3Region
	c.S3BaseEndpoint = ec.S3BaseEndpoint
	c.S3KeyPrefix = ec.S3KeyPrefix
	c.CookieDomain = ec.CookieDomain

	if ec.AccessTokenMinutes != nil {
		c.AccessTokenValidityDuration = time.Duration(*ec.AccessTokenMinutes) * time.Minute
	}
	if ec.RefreshTokenDays != nil {
		c.RefreshTokenValidityDuration = time.Duration(*ec.RefreshTokenDays) * day
	}
	if ec.RecoveryTokenMinutes != nil {
		c.RecoveryTokenValidityDuration = time.Duration(*ec.RecoveryTokenMinutes) * time.Minute
	}
	return nil
}
