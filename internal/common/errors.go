// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import (
	"errors"
	"fmt"
)

// Ошибки валидации команды хлопов
var (
	// ErrSelfPraise — попытка похлопать самому себе
	ErrSelfPraise = errors.New("нельзя хлопать самому себе")
	// ErrNoRecipients — в команде нет ни одного упоминания @username
	ErrNoRecipients = errors.New("не указаны получатели хлопов")
	// ErrEmptyMessage — после упоминаний не осталось текста
	ErrEmptyMessage = errors.New("текст хлопа пустой")
	// ErrUserNotFound — упомянутый пользователь не найден среди участников
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки хранилища
var (
	// ErrCorruptStorage — данные хлопов существуют, но не читаются.
	// Это проблема оператора, а не пользователя: операция прерывается,
	// данные НЕ перезаписываются пустыми.
	ErrCorruptStorage = errors.New("хранилище хлопов повреждено")
)

// QuotaError — недельный лимит хлопов исчерпан или его не хватает
// на всех упомянутых получателей.
// Remaining — сколько хлопов ещё можно дать (никогда не отрицательный).
type QuotaError struct {
	Remaining int
	Limit     int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("недельный лимит хлопов исчерпан (осталось %d из %d)", e.Remaining, e.Limit)
}

// NewQuotaError создаёт QuotaError, прижимая отрицательный остаток к нулю.
func NewQuotaError(remaining, limit int) *QuotaError {
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaError{Remaining: remaining, Limit: limit}
}
