// Package praise реализует учёт хлопов — благодарностей между участниками.
// models.go описывает модель данных: у каждого пользователя две
// хронологические последовательности — полученные и розданные хлопы.
// Один хлоп хранится избыточно, двумя записями (у получателя и у отправителя),
// чтобы и квота, и лидерборд считались одним проходом по нужному списку.
package praise

import "time"

// ReceivedEntry — полученный хлоп в списке received получателя.
type ReceivedEntry struct {
	FromUser  int64     `json:"from_user"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// GivenEntry — розданный хлоп в списке given отправителя.
type GivenEntry struct {
	ToUser    int64     `json:"to_user"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRecord — история одного пользователя.
// Порядок в обоих списках хронологический, старые записи первыми.
type UserRecord struct {
	Received []ReceivedEntry `json:"received"`
	Given    []GivenEntry    `json:"given"`
}

// State — вся книга хлопов: user ID → история.
// В JSON ключи сериализуются как десятичные строки (поведение encoding/json
// для map с целочисленным ключом), так что файл читается глазами.
type State map[int64]*UserRecord

// Record возвращает историю пользователя, создавая её при первом обращении.
func (s State) Record(userID int64) *UserRecord {
	rec, ok := s[userID]
	if !ok {
		rec = &UserRecord{}
		s[userID] = rec
	}
	return rec
}

// LeaderboardRow — строка лидерборда: счётчики за отчётный период.
type LeaderboardRow struct {
	UserID   int64
	Received int
	Given    int
}
