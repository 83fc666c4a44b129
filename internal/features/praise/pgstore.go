// Package praise — pgstore.go хранит книгу хлопов в PostgreSQL.
// Семантика у порта та же, что у файла: Load читает всё, Save заменяет
// всё в одной транзакции. Таблица praise_entries хранит обе проекции
// хлопа (received/given) строками, порядок задаётся автоинкрементом.
package praise

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore — postgres-реализация Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore создаёт postgres-хранилище книги хлопов.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Load читает все записи в порядке вставки и раскладывает их по пользователям.
func (ps *PGStore) Load(ctx context.Context) (State, error) {
	query := `
		SELECT owner_id, direction, counterpart_id, message, created_at
		FROM praise_entries
		ORDER BY id
	`
	rows, err := ps.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения книги хлопов: %w", err)
	}
	defer rows.Close()

	state := State{}
	for rows.Next() {
		var (
			ownerID, counterpartID int64
			direction, message     string
			createdAt              time.Time
		)
		if err := rows.Scan(&ownerID, &direction, &counterpartID, &message, &createdAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		rec := state.Record(ownerID)
		switch direction {
		case "received":
			rec.Received = append(rec.Received, ReceivedEntry{
				FromUser:  counterpartID,
				Message:   message,
				Timestamp: createdAt,
			})
		case "given":
			rec.Given = append(rec.Given, GivenEntry{
				ToUser:    counterpartID,
				Message:   message,
				Timestamp: createdAt,
			})
		default:
			return nil, fmt.Errorf("неизвестное направление записи %q", direction)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return state, nil
}

// Save заменяет содержимое таблицы новым состоянием в одной транзакции.
// Пользователи обходятся по возрастанию ID, записи — в порядке списков,
// чтобы Load восстанавливал тот же порядок.
func (ps *PGStore) Save(ctx context.Context, state State) error {
	tx, err := ps.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM praise_entries`); err != nil {
		return fmt.Errorf("ошибка очистки книги хлопов: %w", err)
	}

	userIDs := make([]int64, 0, len(state))
	for userID := range state {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	insert := `
		INSERT INTO praise_entries (owner_id, direction, counterpart_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, userID := range userIDs {
		rec := state[userID]
		if rec == nil {
			continue
		}
		for _, e := range rec.Received {
			if _, err := tx.Exec(ctx, insert, userID, "received", e.FromUser, e.Message, e.Timestamp); err != nil {
				return fmt.Errorf("ошибка записи received (user_id=%d): %w", userID, err)
			}
		}
		for _, e := range rec.Given {
			if _, err := tx.Exec(ctx, insert, userID, "given", e.ToUser, e.Message, e.Timestamp); err != nil {
				return fmt.Errorf("ошибка записи given (user_id=%d): %w", userID, err)
			}
		}
	}

	return tx.Commit(ctx)
}
