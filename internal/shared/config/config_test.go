package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "0123456789abcdef")
	t.Setenv("TELETHON_SESSION", "1session")
	t.Setenv("DESTINATION_CHANNEL", "@dest")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE_CHANNELS", " @a, @b ,,@a")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.APIID)
	assert.Equal(t, []string{"@a", "@b"}, cfg.SourceChannels)
	assert.Equal(t, 3*time.Hour, cfg.ScheduleInterval())
	assert.Equal(t, 4*time.Hour, cfg.ReviewTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.DedupHorizon())
	assert.Equal(t, 2*time.Second, cfg.PostPause())
	assert.Equal(t, 5*time.Second, cfg.FloodWaitMargin())
	assert.Equal(t, "state-repo", cfg.StatePath)
	assert.Equal(t, "media", cfg.MediaPath)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.Equal(t, "DefaultPublisher", cfg.PublisherName)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)
	assert.False(t, cfg.ReviewNotificationsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHEDULE_INTERVAL_MINUTES", "30")
	t.Setenv("REVIEW_TIMEOUT_HOURS", "0.5")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REVIEW_BOT_TOKEN", "1:abc")
	t.Setenv("REVIEW_CHAT_ID", "-100500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.ScheduleInterval())
	assert.Equal(t, 30*time.Minute, cfg.ReviewTimeout())
	assert.Equal(t, AppEnvDevelopment, cfg.AppEnv)
	assert.True(t, cfg.ReviewNotificationsEnabled())
}

func TestLoad_MissingSession(t *testing.T) {
	setRequired(t)
	t.Setenv("TELETHON_SESSION", "  ")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrMissingSession)
}

func TestLoad_MissingCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("API_HASH", "")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrMissingAPICredentials)
}

func TestLoad_MissingDestination(t *testing.T) {
	setRequired(t)
	t.Setenv("DESTINATION_CHANNEL", "")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrMissingDestination)
}

func TestLoad_ConfigFileList(t *testing.T) {
	setRequired(t)
	yaml := "source_channels:\n  - \"@one\"\n  - \"@two\"\n  - \"\"\nfetch_limit: 20\n"
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"@one", "@two"}, cfg.SourceChannels)
	assert.Equal(t, 20, cfg.FetchLimit)
}

func TestParseChannelList(t *testing.T) {
	assert.Empty(t, ParseChannelList(""))
	assert.Equal(t, []string{"@x", "-1001"}, ParseChannelList("@x, -1001 , @x"))
}
