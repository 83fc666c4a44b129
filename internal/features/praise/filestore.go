// Package praise — filestore.go хранит книгу хлопов в JSON-файле
// (формат исходного hloppy_data.json: user ID → {received, given}).
// Замена файла атомарная: временный файл в той же директории + os.Rename.
package praise

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"hloppy.ru/hloppy-bot/internal/common"
)

// FileStore — файловая реализация Store.
type FileStore struct {
	path string
}

// NewFileStore создаёт файловое хранилище книги хлопов.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает книгу хлопов с диска.
// Отсутствующий или пустой файл — пустая книга. Нечитаемый файл —
// common.ErrCorruptStorage: лучше отказать в операции, чем молча
// затереть историю пустым состоянием.
func (fs *FileStore) Load(_ context.Context) (State, error) {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", fs.path).Debug("Файл хлопов ещё не создан, начинаем с пустой книги")
			return State{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", fs.path, err)
	}

	state := State{}
	if len(raw) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrCorruptStorage, fs.path, err)
	}
	// nil-записи после ручного редактирования файла превращаем в пустые
	for userID, rec := range state {
		if rec == nil {
			state[userID] = &UserRecord{}
		}
	}
	return state, nil
}

// Save атомарно перезаписывает книгу хлопов.
// Пользователи без единой записи не сохраняются — так делал и исходный бот.
func (fs *FileStore) Save(_ context.Context, state State) error {
	compact := State{}
	for userID, rec := range state {
		if rec == nil || (len(rec.Received) == 0 && len(rec.Given) == 0) {
			continue
		}
		compact[userID] = rec
	}

	raw, err := json.MarshalIndent(compact, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации книги хлопов: %w", err)
	}

	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, ".hloppy-*.tmp")
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
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка замены %s: %w", fs.path, err)
	}
	return nil
}
