package server

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t, "FERMI_ADDR", "FERMI_SAMPLES", "FERMI_MAX_SAMPLES", "FERMI_SEED")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{Address: ":8080", DefaultSamples: 10000, MaxSamples: 1000000, Seed: 0}, cfg)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("FERMI_ADDR", "127.0.0.1:9000")
	t.Setenv("FERMI_SAMPLES", "500")
	t.Setenv("FERMI_MAX_SAMPLES", "2000")
	t.Setenv("FERMI_SEED", "77")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{Address: "127.0.0.1:9000", DefaultSamples: 500, MaxSamples: 2000, Seed: 77}, cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"not a number":      {"FERMI_SAMPLES": "lots"},
		"zero samples":      {"FERMI_SAMPLES": "0"},
		"max below default": {"FERMI_SAMPLES": "100", "FERMI_MAX_SAMPLES": "10"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t, "FERMI_SAMPLES", "FERMI_MAX_SAMPLES")
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
