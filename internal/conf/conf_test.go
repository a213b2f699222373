package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("GROUP_ID", "-1001234567890")
	t.Setenv("DB_PATH", "")
	t.Setenv("LP_LOGIN", "")
	t.Setenv("LP_PASSWORD", "")
	t.Setenv("LP_PROJECT_ID", "")
	t.Setenv("LP_SERVICE", "")
	t.Setenv("LP_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(-1001234567890), cfg.Telegram.GroupID)
	assert.Equal(t, "links.sqlite", cfg.DBPath)
	assert.Equal(t, "TelegramSupportBot", cfg.LPTracker.Service)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LPTracker.Enabled())
}

func TestValidateRequiresTransport(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOT_TOKEN", "")
	require.Error(t, LoadFromEnv().Validate())

	setBaseEnv(t)
	t.Setenv("GROUP_ID", "")
	require.Error(t, LoadFromEnv().Validate())

	setBaseEnv(t)
	t.Setenv("GROUP_ID", "not-a-number")
	require.Error(t, LoadFromEnv().Validate())
}

func TestCRMEnabledOnlyWithFullCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LP_LOGIN", "user")
	t.Setenv("LP_PASSWORD", "secret")
	t.Setenv("LP_PROJECT_ID", "77")

	cfg := LoadFromEnv()
	assert.True(t, cfg.LPTracker.Enabled())
	assert.Empty(t, cfg.LPTracker.MissingVars())
	assert.Equal(t, int64(77), cfg.LPTracker.ProjectID)
}

func TestPartialCRMCredentialsDisable(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LP_LOGIN", "user")
	t.Setenv("LP_PROJECT_ID", "77")

	cfg := LoadFromEnv()
	assert.False(t, cfg.LPTracker.Enabled())
	assert.Equal(t, []string{"LP_PASSWORD"}, cfg.LPTracker.MissingVars())
	// A misconfigured CRM must never block startup.
	require.NoError(t, cfg.Validate())
}
