package praise

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hloppy.ru/hloppy-bot/internal/common"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "hloppy_data.json"))

	state, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hloppy_data.json")
	fs := NewFileStore(path)

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	state := State{
		1: {
			Given: []GivenEntry{
				{ToUser: 2, Message: "отличная работа", Timestamp: ts},
				{ToUser: 3, Message: "и тебе спасибо", Timestamp: ts.Add(time.Hour)},
			},
		},
		2: {
			Received: []ReceivedEntry{{FromUser: 1, Message: "отличная работа", Timestamp: ts}},
		},
		3: {
			Received: []ReceivedEntry{{FromUser: 1, Message: "и тебе спасибо", Timestamp: ts.Add(time.Hour)}},
		},
	}

	require.NoError(t, fs.Save(ctx, state))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// Повторный save(load()) не меняет содержимое файла
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, fs.Save(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hloppy_data.json")
	fs := NewFileStore(path)

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	state := State{
		42: {
			Received: []ReceivedEntry{{FromUser: 7, Message: "молодец", Timestamp: ts}},
			Given:    []GivenEntry{{ToUser: 7, Message: "взаимно", Timestamp: ts}},
		},
	}
	require.NoError(t, fs.Save(ctx, state))

	// Файл человекочитаемый: строковые ключи-ID и поля как в исходном формате
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Contains(t, generic, "42")
	require.Len(t, generic["42"]["received"], 1)
	entry := generic["42"]["received"][0]
	assert.Equal(t, float64(7), entry["from_user"])
	assert.Equal(t, "молодец", entry["message"])
	assert.Contains(t, entry["timestamp"], "2026-08-01T12:00:00")
	assert.Equal(t, "взаимно", generic["42"]["given"][0]["message"])
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hloppy_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{не json"), 0o644))

	fs := NewFileStore(path)
	_, err := fs.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrCorruptStorage)

	// Повреждённый файл остаётся на месте нетронутым
	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{не json", string(raw))
}

func TestFileStoreSaveDropsEmptyRecordsAndTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "hloppy_data.json"))

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	state := State{
		1: {Given: []GivenEntry{{ToUser: 2, Message: "текст", Timestamp: ts}}},
		2: {Received: []ReceivedEntry{{FromUser: 1, Message: "текст", Timestamp: ts}}},
		3: {}, // пустая запись не сохраняется
	}
	require.NoError(t, fs.Save(ctx, state))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, loaded, int64(3))

	// Временных файлов после записи не остаётся
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hloppy_data.json", entries[0].Name())
}
