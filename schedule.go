package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"medal-backup/style"
)

// runScheduled performs unattended backups on the configured cron schedule
// until ctx is cancelled.
func (app *App) runScheduled(ctx context.Context) error {
	if app.cfg.Schedule == "" {
		return errors.New("no schedule configured, set \"schedule\" in the config file")
	}

	job, err := app.configuredJob()
	if err != nil {
		return err
	}

	c := newScheduler()
	_, err = c.AddFunc(app.cfg.Schedule, func() {
		style.Signature("=== Scheduled backup started at %s ===", time.Now().Format("2006-01-02 15:04:05"))
		if _, err := app.runBackup(job); err != nil {
			style.ErrLite("Scheduled backup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling backup: %w", err)
	}

	c.Start()
	style.Info("Backup scheduler started (%s). Press Ctrl+C to exit.", app.cfg.Schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	style.InfoLite("Backup scheduler stopped.")
	return nil
}

// newScheduler returns a cron runner that never starts a job while the
// previous run of it is still going.
func newScheduler() *cron.Cron {
	return cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
}
