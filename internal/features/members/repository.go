// Package members — repository.go определяет порт хранилища справочника
// и его postgres-реализацию. Файловая реализация — в filerepo.go.
package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hloppy.ru/hloppy-bot/internal/common"
)

// Repository — порт хранилища участников.
// Реализации: PGRepository (таблица members) и FileRepository (JSON-файл).
type Repository interface {
	// Upsert создаёт участника или обновляет имя/username существующего.
	Upsert(ctx context.Context, m *Member) error
	// GetByUserID возвращает участника. Если не найден — common.ErrUserNotFound.
	GetByUserID(ctx context.Context, userID int64) (*Member, error)
	// GetByUsername ищет участника по @username без учёта регистра.
	// Если не найден — common.ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*Member, error)
	// Exists проверяет, есть ли участник в справочнике.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// PGRepository работает с таблицей members.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewPGRepository создаёт postgres-репозиторий участников.
func NewPGRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Upsert добавляет участника. На конфликте по user_id обновляет
// только имя/username (ничего больше в записи нет и не появится молча).
func (r *PGRepository) Upsert(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (user_id, username, first_name, last_name, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
	`
	joined := m.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, query, m.UserID, m.Username, m.FirstName, m.LastName, joined)
	if err != nil {
		return fmt.Errorf("ошибка создания/обновления участника: %w", err)
	}
	return nil
}

// GetByUserID: если не найден — common.ErrUserNotFound.
func (r *PGRepository) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	query := `
		SELECT user_id, username, first_name, last_name, joined_at, updated_at
		FROM members
		WHERE user_id = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.JoinedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения участника (user_id=%d): %w", userID, err)
	}
	return &m, nil
}

// GetByUsername: если не найден — common.ErrUserNotFound.
func (r *PGRepository) GetByUsername(ctx context.Context, username string) (*Member, error) {
	query := `
		SELECT user_id, username, first_name, last_name, joined_at, updated_at
		FROM members
		WHERE LOWER(username) = LOWER($1)
	`
	var m Member
	err := r.db.QueryRow(ctx, query, username).Scan(
		&m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.JoinedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения участника (username=%s): %w", username, err)
	}
	return &m, nil
}

// Exists проверяет наличие участника в таблице.
func (r *PGRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}
