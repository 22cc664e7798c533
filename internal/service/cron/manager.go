package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/facultydesk/consultation-core/internal/service"
)

// Manager запускает периодические фоновые задачи ядра.
// Единственная задача — рекомендательная реконсиляция уведомлений.
type Manager struct {
	cron          *cron.Cron
	notifications *service.NotificationService
	log           *zap.Logger
}

func NewManager(notifications *service.NotificationService, log *zap.Logger) *Manager {
	return &Manager{
		cron:          cron.New(),
		notifications: notifications,
		log:           log,
	}
}

// Start регистрирует задачи и запускает планировщик.
// spec — расписание в формате cron, например "@every 45s".
func (m *Manager) Start(spec string) error {
	_, err := m.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := m.notifications.Reconcile(ctx); err != nil {
			m.log.Warn("notification reconcile failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	m.cron.Start()
	m.log.Info("cron started", zap.String("reconcile_spec", spec))
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron stopped")
}
