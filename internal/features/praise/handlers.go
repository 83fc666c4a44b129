// Package praise — handlers.go обрабатывает команды !хлопы и !стата
// и готовит текст периодической рассылки лидерборда.
// Обработчик переводит ошибки сервиса в понятные ответы; наружу
// ошибки валидации не выходят никогда, только ошибки доставки.
package praise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hloppy.ru/hloppy-bot/internal/common"
	"hloppy.ru/hloppy-bot/internal/config"
	"hloppy.ru/hloppy-bot/internal/features/members"
)

// Sink — порт отправки сообщений в чат.
type Sink interface {
	SendMessage(chatID int64, text string) error
}

// Resolver — порт резолвера упоминаний (реализуется members.Service).
type Resolver interface {
	Resolve(ctx context.Context, mention string) (*members.Member, error)
	DisplayName(ctx context.Context, userID int64) string
}

// Handler обрабатывает команды хлопов.
type Handler struct {
	service  *Service
	resolver Resolver
	sink     Sink
	cfg      *config.Config
}

// NewHandler создаёт обработчик команд хлопов.
func NewHandler(service *Service, resolver Resolver, sink Sink, cfg *config.Config) *Handler {
	return &Handler{service: service, resolver: resolver, sink: sink, cfg: cfg}
}

const usageText = "Формат: !хлопы @username [@username2 ...] текст благодарности"

// SplitMentions разбирает аргументы команды: токены, начинающиеся с @,
// в любом месте команды — упоминания; всё остальное, склеенное пробелами, —
// текст хлопа. Порядок упоминаний сохраняется.
func SplitMentions(args []string) (mentions []string, message string) {
	var rest []string
	for _, tok := range args {
		if strings.HasPrefix(tok, "@") && len(tok) > 1 {
			mentions = append(mentions, tok)
			continue
		}
		rest = append(rest, tok)
	}
	return mentions, strings.TrimSpace(strings.Join(rest, " "))
}

// HandlePraise обрабатывает команду !хлопы.
func (h *Handler) HandlePraise(ctx context.Context, chatID, invoker int64, args []string) {
	mentions, message := SplitMentions(args)

	if len(mentions) == 0 {
		remaining, err := h.service.RemainingQuota(ctx, invoker)
		if err != nil {
			log.WithError(err).Error("Ошибка чтения квоты")
			h.send(chatID, "❌ Что-то пошло не так, попробуй ещё раз")
			return
		}
		h.send(chatID, fmt.Sprintf("❌ Укажи, кого хлопаешь.\n%s\nНа этой неделе у тебя осталось %s.",
			usageText, common.FormatPraises(remaining)))
		return
	}
	if message == "" {
		h.send(chatID, "❌ Добавь текст благодарности после упоминаний.\n"+usageText)
		return
	}

	recipients := make([]int64, 0, len(mentions))
	for _, mention := range mentions {
		m, err := h.resolver.Resolve(ctx, mention)
		if err != nil {
			if errors.Is(err, common.ErrUserNotFound) {
				h.send(chatID, fmt.Sprintf("❌ Не знаю пользователя %s. Хлопать можно только участников чата.", mention))
				return
			}
			log.WithError(err).WithField("mention", mention).Error("Ошибка резолва упоминания")
			h.send(chatID, "❌ Что-то пошло не так, попробуй ещё раз")
			return
		}
		recipients = append(recipients, m.UserID)
	}

	result, err := h.service.RecordPraise(ctx, invoker, recipients, message)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}

	h.send(chatID, h.formatSuccess(ctx, invoker, result, message))
}

// replyError переводит ошибку сервиса в ответ пользователю.
func (h *Handler) replyError(ctx context.Context, chatID int64, err error) {
	var quotaErr *common.QuotaError
	switch {
	case errors.As(err, &quotaErr):
		h.send(chatID, fmt.Sprintf("⛔ Лимит: %s в неделю. Сейчас у тебя осталось %s — упомяни меньше людей или подожди.",
			common.FormatPraises(quotaErr.Limit), common.FormatPraises(quotaErr.Remaining)))
	case errors.Is(err, common.ErrSelfPraise):
		h.send(chatID, "❌ Сам себя не похлопаешь. Точнее, похлопаешь, но не здесь.")
	case errors.Is(err, common.ErrEmptyMessage):
		h.send(chatID, "❌ Добавь текст благодарности после упоминаний.\n"+usageText)
	case errors.Is(err, common.ErrNoRecipients):
		h.send(chatID, "❌ Укажи, кого хлопаешь.\n"+usageText)
	case errors.Is(err, common.ErrUserNotFound):
		h.send(chatID, "❌ Пользователь не найден. Хлопать можно только участников чата.")
	default:
		log.WithError(err).Error("Ошибка записи хлопов")
		h.send(chatID, "❌ Что-то пошло не так, попробуй ещё раз")
	}
}

// formatSuccess собирает подтверждение успешного хлопа.
func (h *Handler) formatSuccess(ctx context.Context, invoker int64, result *PraiseResult, message string) string {
	names := make([]string, 0, len(result.Recipients))
	counts := make([]string, 0, len(result.Recipients))
	for _, r := range result.Recipients {
		name := h.resolver.DisplayName(ctx, r.UserID)
		names = append(names, name)
		counts = append(counts, fmt.Sprintf("Для %s это хлоп №%d", name, r.ReceivedTotal))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌟 %s хлопает: %s\n> %s\n",
		h.resolver.DisplayName(ctx, invoker), strings.Join(names, ", "), message)
	for _, line := range counts {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "На этой неделе у тебя осталось %s.", common.FormatPraises(result.Remaining))
	return b.String()
}

// HandleStats обрабатывает команду !стата — лидерборд за отчётный период.
func (h *Handler) HandleStats(ctx context.Context, chatID int64) {
	text, err := h.RenderLeaderboard(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка построения лидерборда")
		h.send(chatID, "❌ Что-то пошло не так, попробуй ещё раз")
		return
	}
	h.send(chatID, text)
}

// RenderLeaderboard строит текст лидерборда. Используется и командой
// !стата, и периодической рассылкой.
func (h *Handler) RenderLeaderboard(ctx context.Context) (string, error) {
	rows, err := h.service.Leaderboard(ctx)
	if err != nil {
		return "", err
	}

	period := h.cfg.LeaderboardPeriodDays
	if len(rows) == 0 {
		return fmt.Sprintf("За последние %d %s никто никого не хлопал 😢\nБудь первым: %s",
			period, common.PluralizeDays(period), usageText), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Хлопы за последние %d %s:\n", period, common.PluralizeDays(period))
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s — получено %d, роздано %d\n",
			i+1, h.resolver.DisplayName(ctx, row.UserID), row.Received, row.Given)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// BroadcastLeaderboard отправляет лидерборд в чат рассылки.
// Вызывается планировщиком; ошибка доставки только логируется выше.
func (h *Handler) BroadcastLeaderboard(ctx context.Context) error {
	text, err := h.RenderLeaderboard(ctx)
	if err != nil {
		return err
	}
	return h.sink.SendMessage(h.cfg.BroadcastChatID, text)
}

// send — утилита отправки с логированием ошибки доставки.
func (h *Handler) send(chatID int64, text string) {
	if err := h.sink.SendMessage(chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
