package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("FLOOD_CHAT_ID", "-100500")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.PraiseWeeklyLimit)
	assert.Equal(t, 7, cfg.PraiseWindowDays)
	assert.Equal(t, 14, cfg.LeaderboardPeriodDays)
	assert.Equal(t, "@every 336h", cfg.LeaderboardCron)
	assert.Equal(t, BackendFile, cfg.LedgerBackend)
	assert.Equal(t, "hloppy_data.json", cfg.LedgerFile)
	// Без отдельного чата рассылки лидерборд идёт в основной чат
	assert.Equal(t, int64(-100500), cfg.BroadcastChatID)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("FLOOD_CHAT_ID", "-100500")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	t.Run("нулевой лимит", func(t *testing.T) {
		t.Setenv("PRAISE_WEEKLY_LIMIT", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "PRAISE_WEEKLY_LIMIT")
	})

	t.Run("неизвестный бэкенд", func(t *testing.T) {
		t.Setenv("LEDGER_BACKEND", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "LEDGER_BACKEND")
	})

	t.Run("postgres без пароля", func(t *testing.T) {
		t.Setenv("LEDGER_BACKEND", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_PASSWORD")
	})

	t.Run("postgres с паролем", func(t *testing.T) {
		t.Setenv("LEDGER_BACKEND", "postgres")
		t.Setenv("DB_PASSWORD", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Contains(t, cfg.DatabaseDSN(), "postgres://botuser:secret@")
	})
}
