// Package bot — sink.go: исходящий канал сообщений.
// Отдельный тип, а не метод Bot, потому что обработчикам фич нужен
// только способ отправить текст, без остального бота.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sink отправляет текстовые сообщения через Telegram Bot API.
// Реализует praise.Sink.
type Sink struct {
	api *tgbotapi.BotAPI
}

// NewSink создаёт канал отправки сообщений.
func NewSink(api *tgbotapi.BotAPI) *Sink {
	return &Sink{api: api}
}

// SendMessage отправляет текст в чат. Ошибку доставки возвращает
// вызывающему — решение логировать или отвечать принимается там.
func (s *Sink) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := s.api.Send(msg)
	return err
}
