package utils

import (
	"context"
	"fmt"
	"log"

	"summercamp/enrollment"

	"github.com/robfig/cron/v3"
)

// Reconciler is the job the scheduler runs.
type Reconciler interface {
	Run(ctx context.Context) (enrollment.Summary, error)
}

// InitializeReconcileScheduler starts a cron that replays open reconciliation
// tasks on schedule. A run still in progress makes the next tick skip.
func InitializeReconcileScheduler(ctx context.Context, reconciler Reconciler, schedule string) (*cron.Cron, error) {
	log.Println("[RECONCILE-SCHEDULER] Initializing reconcile scheduler...")

	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(schedule, func() {
		if _, err := reconciler.Run(ctx); err != nil {
			log.Printf("[RECONCILE-SCHEDULER] Run failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Printf("[RECONCILE-SCHEDULER] Reconcile scheduler started - runs %s", schedule)
	return c, nil
}
