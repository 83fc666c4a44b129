// Package members — service.go содержит бизнес-логику справочника.
// Сервис пополняет справочник из трафика чата и резолвит упоминания
// @username в Telegram user ID для команды хлопов.
package members

import (
	"context"
	"errors"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Service управляет участниками чата.
type Service struct {
	repo Repository
}

// NewService создаёт новый сервис участников.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember гарантирует, что участник есть в справочнике, и обновляет
// его имя/username. Вызывается на каждое входящее сообщение.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	return s.repo.Upsert(ctx, &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	})
}

// HandleNewMember обрабатывает вступление нового пользователя в чат.
func (s *Service) HandleNewMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	log.WithField("user_id", userID).Info("Новый участник чата")
	return s.EnsureMember(ctx, userID, username, firstName, lastName)
}

// IsMember проверяет, известен ли пользователь справочнику.
func (s *Service) IsMember(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// GetByUserID возвращает участника по Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Resolve резолвит упоминание вида "@vasya" или "vasya" в участника.
// Если пользователь неизвестен боту — common.ErrUserNotFound:
// хлопать можно только тех, кого бот видел в чате.
func (s *Service) Resolve(ctx context.Context, mention string) (*Member, error) {
	username := strings.TrimPrefix(strings.TrimSpace(mention), "@")
	if username == "" {
		return nil, errors.New("пустое упоминание")
	}
	return s.repo.GetByUsername(ctx, username)
}

// DisplayName возвращает отображаемое имя по user ID.
// Если участник неизвестен — возвращает упоминание-заглушку,
// чтобы лидерборд не падал из-за одного потерянного пользователя.
func (s *Service) DisplayName(ctx context.Context, userID int64) string {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("участник не найден для отображения")
		return "id" + strconv.FormatInt(userID, 10)
	}
	return m.DisplayName()
}
