// Package jobs управляет фоновыми задачами (cron).
// Единственная задача — периодическая рассылка лидерборда хлопов.
// Ошибка доставки логируется и не ретраится: рассылку никто не ждёт,
// следующая придёт по расписанию.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"hloppy.ru/hloppy-bot/internal/features/praise"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	praiseHandler *praise.Handler
	schedule      string
}

// NewScheduler создаёт планировщик задач в заданном часовом поясе.
func NewScheduler(praiseHandler *praise.Handler, schedule, timezone string) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить %s, используем UTC", timezone)
		loc = time.UTC
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		praiseHandler: praiseHandler,
		schedule:      schedule,
	}
}

// Start запускает рассылку лидерборда по расписанию.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		log.Info("[CRON] Рассылка лидерборда")
		if err := s.praiseHandler.BroadcastLeaderboard(ctx); err != nil {
			log.WithError(err).Error("[CRON] Не удалось разослать лидерборд")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
