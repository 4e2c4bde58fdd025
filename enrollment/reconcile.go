package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"summercamp/models"
)

// Summary counts what one reconciliation pass did.
type Summary struct {
	Processed int `json:"processed"`
	Resolved  int `json:"resolved"`
	Retry     int `json:"retry"`
	Escalated int `json:"escalated"`
}

// Reconciler replays SEAT and CART steps from persisted payments.
type Reconciler struct {
	store       Store
	batchSize   int
	maxAttempts int
	now         func() time.Time
}

func NewReconciler(store Store, batchSize, maxAttempts int) *Reconciler {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Reconciler{store: store, batchSize: batchSize, maxAttempts: maxAttempts, now: time.Now}
}

// Run processes one batch of open tasks.
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	tasks, err := r.store.PendingTasks(ctx, r.batchSize)
	if err != nil {
		return summary, fmt.Errorf("load reconciliation tasks: %w", err)
	}

	for i := range tasks {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		task := &tasks[i]
		summary.Processed++

		r.replay(ctx, task)
		switch task.Status {
		case models.ReconciliationResolved:
			summary.Resolved++
		case models.ReconciliationManualReview:
			summary.Escalated++
		default:
			summary.Retry++
		}

		if err := r.store.SaveTask(ctx, task); err != nil {
			log.Printf("[RECONCILE] failed to save task %d: %v", task.ID, err)
		}
	}

	if summary.Processed > 0 {
		log.Printf("[RECONCILE] processed=%d resolved=%d retry=%d escalated=%d",
			summary.Processed, summary.Resolved, summary.Retry, summary.Escalated)
	}
	return summary, nil
}

func (r *Reconciler) replay(ctx context.Context, task *models.ReconciliationTask) {
	task.Attempts++

	payment, err := r.store.LoadPayment(ctx, task.PaymentID)
	if err != nil {
		r.fail(task, fmt.Errorf("load payment: %w", err))
		return
	}

	courses := []uint{task.CourseID}
	switch task.Step {
	case models.StepSeat:
		err := r.store.ReserveSeats(ctx, payment.ID, payment.UserID, courses)
		var oversell *OversellError
		switch {
		case errors.As(err, &oversell):
			task.Status = models.ReconciliationManualReview
			task.LastError = err.Error()
			return
		case err != nil && !errors.Is(err, ErrAlreadyEnrolled):
			r.fail(task, err)
			return
		}
		// Seat is held; the pending entry is all that is left.
		if _, err := r.store.RemovePending(ctx, payment.UserID, courses); err != nil {
			task.Step = models.StepCart
			r.fail(task, err)
			return
		}
	case models.StepCart:
		if _, err := r.store.RemovePending(ctx, payment.UserID, courses); err != nil {
			r.fail(task, err)
			return
		}
	default:
		task.Status = models.ReconciliationManualReview
		task.LastError = fmt.Sprintf("unknown step %q", task.Step)
		return
	}

	now := r.now().UTC()
	task.Status = models.ReconciliationResolved
	task.ResolvedAt = &now
	task.LastError = ""
}

func (r *Reconciler) fail(task *models.ReconciliationTask, err error) {
	task.LastError = err.Error()
	if task.Attempts >= r.maxAttempts {
		task.Status = models.ReconciliationManualReview
	}
}
