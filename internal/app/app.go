// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает бэкенд хранилища, создаёт репозитории,
// сервисы, обработчики и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"hloppy.ru/hloppy-bot/internal/bot"
	"hloppy.ru/hloppy-bot/internal/bot/filters"
	"hloppy.ru/hloppy-bot/internal/config"
	"hloppy.ru/hloppy-bot/internal/db/postgres"
	"hloppy.ru/hloppy-bot/internal/features/members"
	"hloppy.ru/hloppy-bot/internal/features/praise"
	"hloppy.ru/hloppy-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	// DB заполнен только при LEDGER_BACKEND=postgres
	DB     *pgxpool.Pool
	BotAPI *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	var (
		pool        *pgxpool.Pool
		ledgerStore praise.Store
		memberRepo  members.Repository
	)
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		var err error
		pool, err = postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := runMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		ledgerStore = praise.NewPGStore(pool)
		memberRepo = members.NewPGRepository(pool)
		log.Info("Хранилище: PostgreSQL")

	case config.BackendFile:
		ledgerStore = praise.NewFileStore(cfg.LedgerFile)
		memberRepo = members.NewFileRepository(cfg.MembersFile)
		log.WithField("path", cfg.LedgerFile).Info("Хранилище: JSON-файл")

	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища %q", cfg.LedgerBackend)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	sink := bot.NewSink(botAPI)

	// === 3. Сервисы ===
	memberService := members.NewService(memberRepo)
	praiseService := praise.NewService(ledgerStore, memberService, cfg)

	// === 4. Обработчики ===
	praiseHandler := praise.NewHandler(praiseService, memberService, sink, cfg)

	// === 5. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, memberService, botAPI)

	// === 6. Собираем бота ===
	b := bot.New(botAPI, sink, cfg, memberService, praiseHandler, chatFilter)

	// === 7. Планировщик рассылки лидерборда ===
	scheduler := jobs.NewScheduler(praiseHandler, cfg.LeaderboardCron, cfg.AppTimezone)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Members},
		{2, migration002PraiseEntries},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}
	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    user_id BIGINT PRIMARY KEY,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255),
    joined_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(LOWER(username));
`

var migration002PraiseEntries = `
CREATE TABLE IF NOT EXISTS praise_entries (
    id BIGSERIAL PRIMARY KEY,
    owner_id BIGINT NOT NULL,
    direction VARCHAR(10) NOT NULL CHECK (direction IN ('received', 'given')),
    counterpart_id BIGINT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_praise_entries_owner ON praise_entries(owner_id, direction);
CREATE INDEX IF NOT EXISTS idx_praise_entries_created_at ON praise_entries(created_at DESC);
`
