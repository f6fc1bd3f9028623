package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := loadSampleConfig("sample.toml")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "8910", cfg.Port)
	assert.Equal(t, defaultUserAgent, cfg.UserAgent)
	assert.Equal(t, "foo.png", cfg.Screenshot)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	require.Len(t, cfg.Cookies, 2)
	assert.Equal(t, "foo", cfg.Cookies[0].Name)
	assert.True(t, cfg.Cookies[0].Expires.IsZero())
	assert.True(t, cfg.Cookies[1].HttpOnly)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), cfg.Cookies[1].Expires.UTC())
}

func TestLoadSampleConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"9000\"\n"), 0644))

	cfg, err := loadSampleConfig(path)
	require.NoError(t, err)
	want := defaultSampleConfig()
	want.Port = "9000"
	assert.Equal(t, want, cfg)
}

func TestLoadSampleConfigErrors(t *testing.T) {
	for name, body := range map[string]string{
		"bad level":   "log_level = \"loud\"\n",
		"bad expires": "[[cookies]]\nname = \"a\"\nexpires = \"tomorrow\"\n",
		"bad toml":    "host = \n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := loadSampleConfig(path)
			assert.Error(t, err)
		})
	}
}
