package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"15m"`, 15 * time.Minute, false},
		{`"720h"`, 720 * time.Hour, false},
		{`1000000000`, time.Second, false},
		{`"soon"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Access  Duration `yaml:"access"`
		Refresh Duration `yaml:"refresh"`
	}
	err := yaml.Unmarshal([]byte("access: 15m\nrefresh: 2000000000\n"), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Access.Duration)
	assert.Equal(t, 2*time.Second, cfg.Refresh.Duration)
}

func TestDuration_UnmarshalYAML_RejectsNonScalar(t *testing.T) {
	var cfg struct {
		Access Duration `yaml:"access"`
	}
	err := yaml.Unmarshal([]byte("access:\n  - 1m\n"), &cfg)
	require.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
