// Package members — filerepo.go хранит справочник участников в JSON-файле.
// Используется при LEDGER_BACKEND=file, когда БД у бота нет вовсе.
// Файл перезаписывается целиком через временный файл + rename,
// чтобы параллельный читатель никогда не увидел недописанный JSON.
package members

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hloppy.ru/hloppy-bot/internal/common"
)

// FileRepository — файловая реализация Repository.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository создаёт файловый репозиторий участников.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// load читает весь справочник. Отсутствующий файл — пустой справочник.
func (r *FileRepository) load() (map[int64]*Member, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]*Member{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", r.path, err)
	}
	out := map[int64]*Member{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrCorruptStorage, r.path, err)
	}
	return out, nil
}

// save перезаписывает справочник атомарно (temp-файл в той же директории + rename).
func (r *FileRepository) save(all map[int64]*Member) error {
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации участников: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".members-*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка закрытия %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка замены %s: %w", r.path, err)
	}
	return nil
}

// Upsert добавляет участника или обновляет его имя/username.
func (r *FileRepository) Upsert(_ context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if existing, ok := all[m.UserID]; ok {
		existing.Username = m.Username
		existing.FirstName = m.FirstName
		existing.LastName = m.LastName
		existing.UpdatedAt = now
	} else {
		joined := m.JoinedAt
		if joined.IsZero() {
			joined = now
		}
		all[m.UserID] = &Member{
			UserID:    m.UserID,
			Username:  m.Username,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			JoinedAt:  joined,
			UpdatedAt: now,
		}
	}
	return r.save(all)
}

// GetByUserID возвращает участника или common.ErrUserNotFound.
func (r *FileRepository) GetByUserID(_ context.Context, userID int64) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	m, ok := all[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return m, nil
}

// GetByUsername ищет по @username без учёта регистра.
func (r *FileRepository) GetByUsername(_ context.Context, username string) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if m.Username != "" && strings.EqualFold(m.Username, username) {
			return m, nil
		}
	}
	return nil, common.ErrUserNotFound
}

// Exists проверяет наличие участника.
func (r *FileRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}
