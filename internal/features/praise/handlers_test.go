package praise

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hloppy.ru/hloppy-bot/internal/common"
	"hloppy.ru/hloppy-bot/internal/features/members"
)

// captureSink копит отправленные сообщения.
type captureSink struct {
	chatIDs []int64
	texts   []string
	fail    bool
}

func (c *captureSink) SendMessage(chatID int64, text string) error {
	if c.fail {
		return errors.New("telegram недоступен")
	}
	c.chatIDs = append(c.chatIDs, chatID)
	c.texts = append(c.texts, text)
	return nil
}

func (c *captureSink) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.texts)
	return c.texts[len(c.texts)-1]
}

// fakeResolver резолвит username → участник по фиксированной таблице.
type fakeResolver struct {
	byUsername map[string]*members.Member
}

func (f *fakeResolver) Resolve(_ context.Context, mention string) (*members.Member, error) {
	m, ok := f.byUsername[mention]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return m, nil
}

func (f *fakeResolver) DisplayName(_ context.Context, userID int64) string {
	for _, m := range f.byUsername {
		if m.UserID == userID {
			return m.DisplayName()
		}
	}
	return fmt.Sprintf("id%d", userID)
}

func newTestHandler(t *testing.T) (*Handler, *captureSink, *memStore) {
	t.Helper()
	store := newMemStore()
	cfg := testConfig()
	cfg.BroadcastChatID = 777
	svc := NewService(store, allowAll{}, cfg)
	svc.now = func() time.Time { return baseTime }

	resolver := &fakeResolver{byUsername: map[string]*members.Member{
		"@vasya":  {UserID: 2, Username: "vasya"},
		"@petya":  {UserID: 3, Username: "petya"},
		"@sender": {UserID: 1, Username: "sender"},
	}}
	sink := &captureSink{}
	return NewHandler(svc, resolver, sink, cfg), sink, store
}

func TestSplitMentions(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		mentions []string
		message  string
	}{
		{
			name:     "упоминания в начале",
			args:     []string{"@vasya", "@petya", "отличная", "работа"},
			mentions: []string{"@vasya", "@petya"},
			message:  "отличная работа",
		},
		{
			name:     "упоминание в середине текста",
			args:     []string{"спасибо", "@vasya", "за", "ревью"},
			mentions: []string{"@vasya"},
			message:  "спасибо за ревью",
		},
		{
			name:    "без упоминаний",
			args:    []string{"просто", "текст"},
			message: "просто текст",
		},
		{
			name:     "одинокая собака — не упоминание",
			args:     []string{"@", "@vasya", "текст"},
			mentions: []string{"@vasya"},
			message:  "@ текст",
		},
		{
			name: "пусто",
			args: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions, message := SplitMentions(tt.args)
			assert.Equal(t, tt.mentions, mentions)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestHandlePraiseSuccess(t *testing.T) {
	ctx := context.Background()
	h, sink, store := newTestHandler(t)

	h.HandlePraise(ctx, 100, 1, []string{"@vasya", "@petya", "отличная", "работа"})

	reply := sink.last(t)
	assert.Contains(t, reply, "@vasya")
	assert.Contains(t, reply, "@petya")
	assert.Contains(t, reply, "отличная работа")
	assert.Contains(t, reply, "хлоп №1")
	assert.Contains(t, reply, "осталось 1 хлоп")
	assert.Equal(t, int64(100), sink.chatIDs[0])

	state, _ := store.Load(ctx)
	assert.Len(t, state[1].Given, 2)
	assert.Len(t, state[2].Received, 1)
	assert.Len(t, state[3].Received, 1)
}

func TestHandlePraiseNoMentions(t *testing.T) {
	h, sink, store := newTestHandler(t)

	h.HandlePraise(context.Background(), 100, 1, []string{"просто", "текст"})

	reply := sink.last(t)
	assert.Contains(t, reply, "Формат:")
	assert.Contains(t, reply, "осталось 3 хлопа")
	state, _ := store.Load(context.Background())
	assert.Empty(t, state)
}

func TestHandlePraiseEmptyMessage(t *testing.T) {
	h, sink, store := newTestHandler(t)

	h.HandlePraise(context.Background(), 100, 1, []string{"@vasya"})

	assert.Contains(t, sink.last(t), "текст благодарности")
	state, _ := store.Load(context.Background())
	assert.Empty(t, state)
}

func TestHandlePraiseUnknownMention(t *testing.T) {
	h, sink, store := newTestHandler(t)

	h.HandlePraise(context.Background(), 100, 1, []string{"@nobody", "спасибо"})

	assert.Contains(t, sink.last(t), "@nobody")
	assert.Contains(t, sink.last(t), "Не знаю")
	state, _ := store.Load(context.Background())
	assert.Empty(t, state)
}

func TestHandlePraiseSelf(t *testing.T) {
	h, sink, _ := newTestHandler(t)

	h.HandlePraise(context.Background(), 100, 1, []string{"@sender", "я", "молодец"})

	assert.Contains(t, sink.last(t), "Сам себя")
}

func TestHandlePraiseQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	h, sink, _ := newTestHandler(t)

	h.HandlePraise(ctx, 100, 1, []string{"@vasya", "@petya", "спасибо"})
	// Осталась 1 единица, упомянуто двое — отказ с остатком
	h.HandlePraise(ctx, 100, 1, []string{"@vasya", "@petya", "ещё", "раз"})

	reply := sink.last(t)
	assert.Contains(t, reply, "⛔")
	assert.Contains(t, reply, "осталось 1 хлоп")
}

func TestHandleStatsEmpty(t *testing.T) {
	h, sink, _ := newTestHandler(t)

	h.HandleStats(context.Background(), 100)

	reply := sink.last(t)
	assert.Contains(t, reply, "никто никого не хлопал")
	assert.Contains(t, reply, "Формат:")
}

func TestHandleStatsRanking(t *testing.T) {
	ctx := context.Background()
	h, sink, _ := newTestHandler(t)

	h.HandlePraise(ctx, 1, 1, []string{"@vasya", "@petya", "спасибо"})
	h.HandleStats(ctx, 100)

	reply := sink.last(t)
	assert.Contains(t, reply, "🏆")
	assert.Contains(t, reply, "за последние 14 дней")
	// Получатели равны по счётчикам — порядок по возрастанию user ID;
	// отправитель ничего не получал и идёт последним
	assert.Contains(t, reply, "1. @vasya — получено 1, роздано 0")
	assert.Contains(t, reply, "2. @petya — получено 1, роздано 0")
	assert.Contains(t, reply, "3. @sender — получено 0, роздано 2")
}

func TestBroadcastLeaderboard(t *testing.T) {
	ctx := context.Background()
	h, sink, _ := newTestHandler(t)

	h.HandlePraise(ctx, 1, 1, []string{"@vasya", "спасибо"})
	require.NoError(t, h.BroadcastLeaderboard(ctx))

	// Рассылка уходит в настроенный чат
	assert.Equal(t, int64(777), sink.chatIDs[len(sink.chatIDs)-1])
	assert.Contains(t, sink.last(t), "🏆")
}

func TestBroadcastLeaderboardSinkFailure(t *testing.T) {
	h, sink, _ := newTestHandler(t)
	sink.fail = true

	err := h.BroadcastLeaderboard(context.Background())
	assert.Error(t, err)
}
