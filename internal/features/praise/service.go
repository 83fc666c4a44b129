// Package praise — service.go содержит бизнес-логику хлопов:
// квоту по скользящему окну, запись хлопов и лидерборд.
//
// Единственная точка мутации — RecordPraise. Она держит мьютекс на весь
// цикл load→validate→mutate→save: два одновременных хлопа у границы квоты
// иначе обошли бы лимит через классическую гонку read-modify-write.
// Чтения для статистики идут без мьютекса: лидерборд информационный,
// слегка устаревшие данные допустимы.
package praise

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hloppy.ru/hloppy-bot/internal/common"
	"hloppy.ru/hloppy-bot/internal/config"
)

// Directory — порт резолвера личностей: сервис проверяет через него,
// что каждый получатель известен боту.
type Directory interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// Service управляет книгой хлопов.
type Service struct {
	store     Store
	directory Directory
	cfg       *config.Config

	mu  sync.Mutex       // сериализует мутации книги
	now func() time.Time // подменяется в тестах
}

// NewService создаёт сервис хлопов.
func NewService(store Store, directory Directory, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		directory: directory,
		cfg:       cfg,
		now:       time.Now,
	}
}

// PraiseResult — итог успешной записи хлопов, материал для ответа в чат.
type PraiseResult struct {
	Timestamp time.Time
	// Сколько хлопов у отправителя осталось на окне после записи
	Remaining int
	// Получатели в порядке упоминания
	Recipients []RecipientResult
}

// RecipientResult — один получатель и его счётчик за всю историю.
type RecipientResult struct {
	UserID        int64
	ReceivedTotal int
}

// CountRecentGiven возвращает число хлопов, розданных пользователем
// в окне [now - windowDays*24h, now]. Нижняя граница включается:
// запись с отметкой ровно now-окно ещё считается.
func CountRecentGiven(state State, sender int64, windowDays int, now time.Time) int {
	rec, ok := state[sender]
	if !ok {
		return 0
	}
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	count := 0
	for _, g := range rec.Given {
		if !g.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}

// RecordPraise записывает хлопы от sender каждому из recipients с общим
// текстом message. Операция атомарна по принципу «всё или ничего»:
// любая ошибка валидации (включая нехватку квоты на часть получателей)
// оставляет книгу нетронутой.
func (s *Service) RecordPraise(ctx context.Context, sender int64, recipients []int64, message string) (*PraiseResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, common.ErrEmptyMessage
	}

	// Дубли упоминаний схлопываются: один получатель — одна единица квоты
	targets := dedupe(recipients)
	if len(targets) == 0 {
		return nil, common.ErrNoRecipients
	}
	for _, target := range targets {
		if target == sender {
			return nil, common.ErrSelfPraise
		}
	}
	for _, target := range targets {
		known, err := s.directory.IsMember(ctx, target)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, common.ErrUserNotFound
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	given := CountRecentGiven(state, sender, s.cfg.PraiseWindowDays, now)
	if given+len(targets) > s.cfg.PraiseWeeklyLimit {
		return nil, common.NewQuotaError(s.cfg.PraiseWeeklyLimit-given, s.cfg.PraiseWeeklyLimit)
	}

	senderRec := state.Record(sender)
	results := make([]RecipientResult, 0, len(targets))
	for _, target := range targets {
		targetRec := state.Record(target)
		targetRec.Received = append(targetRec.Received, ReceivedEntry{
			FromUser:  sender,
			Message:   message,
			Timestamp: now,
		})
		senderRec.Given = append(senderRec.Given, GivenEntry{
			ToUser:    target,
			Message:   message,
			Timestamp: now,
		})
		results = append(results, RecipientResult{
			UserID:        target,
			ReceivedTotal: len(targetRec.Received),
		})
	}

	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}

	return &PraiseResult{
		Timestamp:  now,
		Remaining:  s.cfg.PraiseWeeklyLimit - given - len(targets),
		Recipients: results,
	}, nil
}

// RemainingQuota возвращает, сколько хлопов пользователь ещё может
// раздать на текущем окне. Никогда не отрицательное.
func (s *Service) RemainingQuota(ctx context.Context, sender int64) (int, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	remaining := s.cfg.PraiseWeeklyLimit - CountRecentGiven(state, sender, s.cfg.PraiseWindowDays, s.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// BuildLeaderboard строит рейтинг за окно [now - periodDays*24h, now].
// Попадают только пользователи хотя бы с одной записью в окне.
// Сортировка детерминированная: received по убыванию, затем given
// по убыванию, затем user ID по возрастанию.
func BuildLeaderboard(state State, periodDays int, now time.Time) []LeaderboardRow {
	cutoff := now.Add(-time.Duration(periodDays) * 24 * time.Hour)

	rows := make([]LeaderboardRow, 0, len(state))
	for userID, rec := range state {
		if rec == nil {
			continue
		}
		row := LeaderboardRow{UserID: userID}
		for _, r := range rec.Received {
			if !r.Timestamp.Before(cutoff) {
				row.Received++
			}
		}
		for _, g := range rec.Given {
			if !g.Timestamp.Before(cutoff) {
				row.Given++
			}
		}
		if row.Received == 0 && row.Given == 0 {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Received != rows[j].Received {
			return rows[i].Received > rows[j].Received
		}
		if rows[i].Given != rows[j].Given {
			return rows[i].Given > rows[j].Given
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}

// Leaderboard загружает книгу и строит рейтинг за настроенный период.
// Мьютекс не берётся: чтение статистики не конфликтует с мутациями
// по смыслу, а хранилище заменяется атомарно.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(state, s.cfg.LeaderboardPeriodDays, s.now()), nil
}

// dedupe убирает повторы, сохраняя порядок первого вхождения.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
