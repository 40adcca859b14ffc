package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentConfigNormalize(t *testing.T) {
	cfg := ContentConfig{
		Locales:     []string{" VI ", "en", "vi", ""},
		FrontendURL: "https://blog.example.com/",
	}
	cfg.normalize()

	assert.Equal(t, []string{"vi", "en"}, cfg.Locales)
	assert.Equal(t, "vi", cfg.DefaultLocale)
	assert.Equal(t, 24, cfg.PreviewTTLHours)
	assert.Equal(t, 50, cfg.PublicListLimit)
	assert.Equal(t, "https://blog.example.com", cfg.FrontendURL)
}

func TestContentConfigNormalizeEmptyLocales(t *testing.T) {
	cfg := ContentConfig{DefaultLocale: "EN", PreviewTTLHours: 2}
	cfg.normalize()

	assert.Equal(t, []string{"vi", "en"}, cfg.Locales)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, 2, cfg.PreviewTTLHours)
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"vi", "en"}, cfg.Content.Locales)
	assert.Equal(t, 24, cfg.Content.PreviewTTLHours)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 10, cfg.Queue.Queues["default"])
}
