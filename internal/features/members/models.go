// Package members управляет справочником участников чата.
// Справочник нужен, чтобы резолвить @username из команды хлопов
// в Telegram user ID: сам Telegram API поиска по username не даёт,
// поэтому бот запоминает всех, кого видел в чате.
// models.go описывает структуру участника.
package members

import "time"

// Member представляет участника чата.
// Каждый пользователь, написавший в FLOOD_CHAT_ID или вступивший в чат,
// автоматически попадает в справочник.
type Member struct {
	UserID    int64     `json:"user_id" db:"user_id"`       // Telegram user ID (уникальный)
	Username  string    `json:"username" db:"username"`     // @username (может быть пустым)
	FirstName string    `json:"first_name" db:"first_name"` // Имя
	LastName  string    `json:"last_name" db:"last_name"`   // Фамилия (может быть пустой)
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`   // Когда бот впервые его увидел
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Последнее обновление данных
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username — возвращает его, иначе — имя + фамилию.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	return name
}
