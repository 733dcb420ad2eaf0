package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for JSON/YAML decoding. Only fields present in the
// file (non-zero after decoding) override the current values.
type fileConfig struct {
	Mode           string `json:"mode" yaml:"mode"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
	HTTPAddr       string `json:"http_addr" yaml:"http_addr"`
	HealthAddrGRPC string `json:"health_addr_grpc" yaml:"health_addr_grpc"`

	DatabaseDriver string `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN    string `json:"database_dsn" yaml:"database_dsn"`

	RefreshStore  string `json:"refresh_store" yaml:"refresh_store"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `json:"redis_password" yaml:"redis_password"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db"`

	KeySource      string `json:"key_source" yaml:"key_source"`
	KeysDir        string `json:"keys_dir" yaml:"keys_dir"`
	S3RootUser     string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3KeyPrefix    string `json:"s3_key_prefix" yaml:"s3_key_prefix"`

	CookieDomain string `json:"cookie_domain" yaml:"cookie_domain"`

	AccessTokenValidityDuration   timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration  timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	RecoveryTokenValidityDuration timex.Duration `json:"recovery_token_validity_duration" yaml:"recovery_token_validity_duration"`
}

// parseFile loads the file given by -c/-config, if any. The format is chosen
// by extension: .yaml/.yml for YAML, anything else is read as JSON.
func parseFile(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &fileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, fc)
	default:
		err = json.Unmarshal(b, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *fileConfig) apply(c *Config) {
	setString(&c.Mode, fc.Mode)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.HealthAddrGRPC, fc.HealthAddrGRPC)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.RefreshStore, fc.RefreshStore)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	if fc.RedisDB != 0 {
		c.RedisDB = fc.RedisDB
	}
	setString(&c.KeySource, fc.KeySource)
	setString(&c.KeysDir, fc.KeysDir)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3KeyPrefix, fc.S3KeyPrefix)
	setString(&c.CookieDomain, fc.CookieDomain)
	if fc.AccessTokenValidityDuration.Duration != 0 {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration.Duration != 0 {
		c.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.RecoveryTokenValidityDuration.Duration != 0 {
		c.RecoveryTokenValidityDuration = fc.RecoveryTokenValidityDuration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
