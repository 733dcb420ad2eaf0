package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-g", ":6000", "-m", "production", "-l", "debug",
				"-D", "sqlite", "-d", "file:x.db", "-k", "/etc/keys",
				"-t", "1", "-r", "3", "-v", "10",
			},
			expected: &Config{
				HTTPAddr:                      "127.0.0.1:9090",
				HealthAddrGRPC:                ":6000",
				Mode:                          "production",
				LogLevel:                      "debug",
				DatabaseDriver:                "sqlite",
				DatabaseDSN:                   "file:x.db",
				KeysDir:                       "/etc/keys",
				AccessTokenValidityDuration:   1 * time.Minute,
				RefreshTokenValidityDuration:  3 * 24 * time.Hour,
				RecoveryTokenValidityDuration: 10 * time.Minute,
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{
				HTTPAddr: ":1",
			},
		},
		{
			name:    "non numeric lifetime",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			config := &Config{}
			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_UnsetLifetimeKeepsSubUnitValue(t *testing.T) {
	withArgs(t, "-a", ":1")

	config := &Config{AccessTokenValidityDuration: 90 * time.Second}
	require.NoError(t, parseFlags(config))
	assert.Equal(t, 90*time.Second, config.AccessTokenValidityDuration)
}
