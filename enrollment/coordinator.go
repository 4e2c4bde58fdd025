package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"summercamp/models"

	"github.com/google/uuid"
)

// Request describes a confirmed payment. PayerEmail and UserID come from the
// verified token, never from the request body.
type Request struct {
	TransactionID string
	UserID        uint
	PayerEmail    string
	Amount        float64
	Currency      string
	CourseIDs     []uint
}

type Options struct {
	// MaxAttempts bounds the retries of the seat update on storage conflicts.
	MaxAttempts int
	Backoff     time.Duration
	Guard       Guard
	LockTTL     time.Duration
}

// Coordinator moves a (user, course set) from PaymentInFlight to Enrolled.
type Coordinator struct {
	store       Store
	guard       Guard
	maxAttempts int
	backoff     time.Duration
	lockTTL     time.Duration
	now         func() time.Time
}

func NewCoordinator(store Store, opts Options) *Coordinator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 20 * time.Millisecond
	}
	if opts.Guard == nil {
		opts.Guard = noopGuard{}
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	return &Coordinator{
		store:       store,
		guard:       opts.Guard,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		lockTTL:     opts.LockTTL,
		now:         time.Now,
	}
}

// Complete records the payment, takes one seat per course, and clears the
// matching pending entries. Once the payment row exists the returned Outcome
// is non-nil, even when err is not.
func (c *Coordinator) Complete(ctx context.Context, req Request) (*Outcome, error) {
	courseIDs := uniqueIDs(req.CourseIDs)
	if len(courseIDs) == 0 {
		return nil, ErrNoCourses
	}
	if req.TransactionID == "" {
		return nil, ErrMissingTransaction
	}

	lockKey := "payment:" + req.TransactionID
	claimed, err := c.guard.Claim(ctx, lockKey, c.lockTTL)
	if err != nil {
		log.Printf("[PAYMENTS] guard unavailable for %s, continuing: %v", req.TransactionID, err)
	} else if !claimed {
		return nil, ErrPaymentInProgress
	} else {
		defer func() {
			if err := c.guard.Release(context.WithoutCancel(ctx), lockKey); err != nil {
				log.Printf("[PAYMENTS] failed to release guard for %s: %v", req.TransactionID, err)
			}
		}()
	}

	if err := c.precheck(ctx, req, courseIDs); err != nil {
		return nil, err
	}

	// Step 1: the payment row is the audit trail for everything after it.
	payment := &models.Payment{
		Reference:     uuid.NewString(),
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		PayerEmail:    req.PayerEmail,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CourseIDs:     models.NewCourseIDs(courseIDs),
		PaidAt:        c.now().UTC(),
	}
	if err := c.store.RecordPayment(ctx, payment); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			return nil, c.duplicate(ctx, req.TransactionID)
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	outcome := &Outcome{Payment: payment, PaymentRecorded: true, EnrolledCourses: []uint{}}
	outcome.record(StepPayment, nil)

	// Step 2: conditional seat update for the whole set.
	if err := c.reserveSeats(ctx, payment, courseIDs); err != nil {
		outcome.record(StepSeats, err)

		var oversell *OversellError
		if errors.As(err, &oversell) || errors.Is(err, ErrAlreadyEnrolled) {
			// A seat cannot be conjured by retrying; somebody has to look
			// at this payment.
			c.openTasks(ctx, payment, courseIDs, models.StepSeat, models.ReconciliationManualReview, err)
			log.Printf("[PAYMENTS] payment %s recorded, seats refused: %v", payment.Reference, err)
			return outcome, &RejectedAfterPayment{Outcome: outcome, Err: err}
		}

		c.openTasks(ctx, payment, courseIDs, models.StepSeat, models.ReconciliationOpen, err)
		log.Printf("[PAYMENTS] payment %s recorded, seat update failed: %v", payment.Reference, err)
		return outcome, &PartialFailure{Outcome: outcome, Step: StepSeats, Err: err}
	}
	outcome.SeatsUpdated = true
	outcome.EnrolledCourses = courseIDs
	outcome.record(StepSeats, nil)

	// Step 3: always attempted once the seats are taken.
	removed, err := c.store.RemovePending(ctx, req.UserID, courseIDs)
	if err != nil {
		outcome.record(StepPending, err)
		c.openTasks(ctx, payment, courseIDs, models.StepCart, models.ReconciliationOpen, err)
		log.Printf("[PAYMENTS] payment %s recorded, pending removal failed: %v", payment.Reference, err)
		return outcome, &PartialFailure{Outcome: outcome, Step: StepPending, Err: err}
	}
	outcome.PendingRemoved = true
	outcome.RemovedEntries = removed
	outcome.record(StepPending, nil)

	return outcome, nil
}

// precheck rejects requests that would fail before anything is written.
func (c *Coordinator) precheck(ctx context.Context, req Request, courseIDs []uint) error {
	existing, err := c.store.FindPayment(ctx, req.TransactionID)
	if err != nil {
		return fmt.Errorf("lookup payment: %w", err)
	}
	if existing != nil {
		return &DuplicatePaymentError{Payment: existing}
	}

	courses, err := c.store.LoadCourses(ctx, courseIDs)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	approved := make(map[uint]bool, len(courses))
	var total int64
	for _, course := range courses {
		approved[course.ID] = course.Status == models.CourseStatusApproved
		total += cents(course.Price)
	}
	for _, id := range courseIDs {
		if !approved[id] {
			return fmt.Errorf("course %d: %w", id, ErrCourseUnavailable)
		}
	}
	if cents(req.Amount) < total {
		return fmt.Errorf("%w: paid %.2f, due %.2f", ErrAmountTooLow, req.Amount, float64(total)/100)
	}

	enrolled, err := c.store.EnrolledCourses(ctx, req.UserID, courseIDs)
	if err != nil {
		return fmt.Errorf("load enrollments: %w", err)
	}
	if len(enrolled) > 0 {
		return fmt.Errorf("course %d: %w", enrolled[0], ErrAlreadyEnrolled)
	}
	return nil
}

func (c *Coordinator) reserveSeats(ctx context.Context, payment *models.Payment, courseIDs []uint) error {
	for attempt := 1; ; attempt++ {
		err := c.store.ReserveSeats(ctx, payment.ID, payment.UserID, courseIDs)
		if err == nil || !errors.Is(err, ErrConflict) || attempt >= c.maxAttempts {
			return err
		}

		log.Printf("[PAYMENTS] seat update conflict for %s (attempt %d/%d): %v",
			payment.Reference, attempt, c.maxAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
}

func (c *Coordinator) duplicate(ctx context.Context, transactionID string) error {
	existing, err := c.store.FindPayment(ctx, transactionID)
	if err != nil || existing == nil {
		return fmt.Errorf("transaction %s: %w", transactionID, ErrDuplicateTransaction)
	}
	return &DuplicatePaymentError{Payment: existing}
}

func (c *Coordinator) openTasks(ctx context.Context, payment *models.Payment, courseIDs []uint,
	step models.ReconciliationStep, status models.ReconciliationStatus, cause error) {
	tasks := make([]models.ReconciliationTask, 0, len(courseIDs))
	for _, id := range courseIDs {
		tasks = append(tasks, models.ReconciliationTask{
			PaymentID: payment.ID,
			UserID:    payment.UserID,
			CourseID:  id,
			Step:      step,
			Status:    status,
			LastError: cause.Error(),
		})
	}
	if err := c.store.OpenTasks(context.WithoutCancel(ctx), tasks); err != nil {
		log.Printf("[RECONCILE] failed to persist %s tasks for payment %s: %v", step, payment.Reference, err)
	}
}

func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	// Fixed order keeps row locks acquired in the same sequence.
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
