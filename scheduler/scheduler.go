// Package scheduler runs the periodic repair jobs for the staff invariants.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// StaffRepairer is implemented by services.StaffService.
type StaffRepairer interface {
	ReconcileRoles(ctx context.Context) (int, error)
	ReleaseOrphaned(ctx context.Context) (int, error)
}

// StartScheduler registers the repair jobs on spec (six fields, seconds
// first) and starts the cron runner. Stop it with the returned Cron.
func StartScheduler(spec string, staff StaffRepairer) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := c.AddFunc(spec, func() { RunRepairJobs(staff) }); err != nil {
		return nil, err
	}

	c.Start()
	slog.Info("scheduler started", "spec", spec)
	return c, nil
}

// RunRepairJobs runs one pass of every repair job.
func RunRepairJobs(staff StaffRepairer) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if n, err := staff.ReconcileRoles(ctx); err != nil {
		slog.Error("role reconciliation failed", "error", err)
	} else if n > 0 {
		slog.Info("reconciled staff roles", "upgraded", n)
	}

	if n, err := staff.ReleaseOrphaned(ctx); err != nil {
		slog.Error("orphaned staff release failed", "error", err)
	} else if n > 0 {
		slog.Info("released orphaned staff", "released", n)
	}
}
