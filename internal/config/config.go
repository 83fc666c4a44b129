// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend хранилища хлопов.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`
	// Куда постить лидерборд по расписанию. 0 = в основной чат.
	BroadcastChatID int64 `envconfig:"BROADCAST_CHAT_ID" default:"0"`

	// --- Хлопы ---
	// Сколько хлопов можно раздать за скользящую неделю
	PraiseWeeklyLimit int `envconfig:"PRAISE_WEEKLY_LIMIT" default:"3"`
	// Длина скользящего окна квоты в днях («неделя» = 7×24ч от текущего момента)
	PraiseWindowDays int `envconfig:"PRAISE_WINDOW_DAYS" default:"7"`
	// За сколько дней считается лидерборд
	LeaderboardPeriodDays int `envconfig:"LEADERBOARD_PERIOD_DAYS" default:"14"`
	// Расписание рассылки лидерборда (формат robfig/cron, поддерживается @every)
	LeaderboardCron string `envconfig:"LEADERBOARD_CRON" default:"@every 336h"`

	// --- Хранилище ---
	// file — JSON-файл (по умолчанию), postgres — таблицы в БД
	LedgerBackend string `envconfig:"LEDGER_BACKEND" default:"file"`
	LedgerFile    string `envconfig:"LEDGER_FILE" default:"hloppy_data.json"`
	MembersFile   string `envconfig:"MEMBERS_FILE" default:"hloppy_members.json"`

	// --- Database (для LEDGER_BACKEND=postgres) ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose).
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"hloppy_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.PraiseWeeklyLimit <= 0 {
		return fmt.Errorf("PRAISE_WEEKLY_LIMIT должен быть > 0")
	}
	if c.PraiseWindowDays <= 0 {
		return fmt.Errorf("PRAISE_WINDOW_DAYS должен быть > 0")
	}
	if c.LeaderboardPeriodDays <= 0 {
		return fmt.Errorf("LEADERBOARD_PERIOD_DAYS должен быть > 0")
	}
	switch c.LedgerBackend {
	case BackendFile:
		if c.LedgerFile == "" {
			return fmt.Errorf("LEDGER_FILE не задан")
		}
	case BackendPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен при LEDGER_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("неизвестный LEDGER_BACKEND %q (file|postgres)", c.LedgerBackend)
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if cfg.BroadcastChatID == 0 {
		cfg.BroadcastChatID = cfg.FloodChatID
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
