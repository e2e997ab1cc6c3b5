package services

import (
	"context"
	"log"

	"backend_customerpro/auth"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs periodic housekeeping jobs. Currently that is only
// the hourly sweep of expired sessions, which the in-memory store needs
// because it has no native TTL.
type MaintenanceService struct {
	cron     *cron.Cron
	sessions auth.SessionStore
}

// NewMaintenanceService creates a new MaintenanceService instance.
func NewMaintenanceService(sessions auth.SessionStore) *MaintenanceService {
	return &MaintenanceService{
		cron:     cron.New(),
		sessions: sessions,
	}
}

// Start registers the jobs and starts the scheduler.
func (ms *MaintenanceService) Start() error {
	_, err := ms.cron.AddFunc("@hourly", func() {
		ms.sessions.DeleteExpired(context.Background())
	})
	if err != nil {
		return err
	}
	ms.cron.Start()
	log.Println("[MAINTENANCE] Scheduler started")
	return nil
}

// Stop halts the scheduler without waiting for running jobs.
func (ms *MaintenanceService) Stop() {
	ms.cron.Stop()
}
