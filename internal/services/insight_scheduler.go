package services

import (
	"context"
	"time"

	"github.com/sestako/eunio-core/internal/logging"
)

type InsightUserLister interface {
	ListUserIDs(ctx context.Context) ([]uint, error)
}

// InsightScheduler triggers a full insight run once per day. It is the
// explicit external timer the engine itself knows nothing about; all
// per-run data is passed into the engine explicitly.
type InsightScheduler struct {
	engine   *InsightEngine
	users    InsightUserLister
	interval time.Duration
	location *time.Location
	logger   *logging.Logger
}

func NewInsightScheduler(engine *InsightEngine, users InsightUserLister, location *time.Location, logger *logging.Logger) *InsightScheduler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InsightScheduler{
		engine:   engine,
		users:    users,
		interval: 24 * time.Hour,
		location: location,
		logger:   logger,
	}
}

// Start launches the daily loop. It returns immediately; the loop stops
// when ctx is cancelled. There is no mid-run cancellation protocol: each
// user runs to completion or records a per-user failure.
func (scheduler *InsightScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(scheduler.interval)
	go func() {
		defer ticker.Stop()

		scheduler.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.runOnce(ctx)
			}
		}
	}()
}

// RunOnce triggers a full-population run immediately; used by the manual
// diagnostics entry point.
func (scheduler *InsightScheduler) RunOnce(ctx context.Context) (RunReport, error) {
	userIDs, err := scheduler.users.ListUserIDs(ctx)
	if err != nil {
		return RunReport{}, err
	}
	return scheduler.engine.Run(ctx, userIDs, time.Now().In(scheduler.location)), nil
}

func (scheduler *InsightScheduler) runOnce(ctx context.Context) {
	report, err := scheduler.RunOnce(ctx)
	if err != nil {
		scheduler.logger.Error("insight run aborted", "error", err)
		return
	}
	scheduler.logger.Info("scheduled insight run finished",
		"processed", report.Processed, "failed", report.Failed)
}
