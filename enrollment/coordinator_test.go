package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"summercamp/database"
	"summercamp/models"
	"summercamp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore injects failures in front of a real GormStore.
type flakyStore struct {
	*GormStore
	conflicts    int
	reserveCalls int
	removeErr    error
}

func (f *flakyStore) ReserveSeats(ctx context.Context, paymentID, userID uint, courseIDs []uint) error {
	f.reserveCalls++
	if f.conflicts > 0 {
		f.conflicts--
		return fmt.Errorf("%w: database is locked", ErrConflict)
	}
	return f.GormStore.ReserveSeats(ctx, paymentID, userID, courseIDs)
}

func (f *flakyStore) RemovePending(ctx context.Context, userID uint, courseIDs []uint) (int64, error) {
	if f.removeErr != nil {
		return 0, f.removeErr
	}
	return f.GormStore.RemovePending(ctx, userID, courseIDs)
}

type denyGuard struct{}

func (denyGuard) Claim(context.Context, string, time.Duration) (bool, error) { return false, nil }
func (denyGuard) Release(context.Context, string) error                      { return nil }

func reload(t *testing.T, db *database.DbInstance, id uint) models.Course {
	t.Helper()
	var course models.Course
	require.NoError(t, db.Db.First(&course, id).Error)
	return course
}

func count(t *testing.T, db *database.DbInstance, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func request(user models.User, txn string, courses ...uint) Request {
	return Request{
		TransactionID: txn,
		UserID:        user.ID,
		PayerEmail:    user.Email,
		Amount:        25 * float64(len(courses)),
		Currency:      "usd",
		CourseIDs:     courses,
	}
}

func TestCompleteLastSeatScenario(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "u@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Archery", 1, 5)
	other := testutil.CreateCourse(t, db, "Canoeing", 4, 0)
	testutil.AddToCart(t, db, user, course)
	testutil.AddToCart(t, db, user, other)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	outcome, err := coord.Complete(context.Background(), request(user, "pi_last", course.ID))
	require.NoError(t, err)

	assert.True(t, outcome.PaymentRecorded)
	assert.True(t, outcome.SeatsUpdated)
	assert.True(t, outcome.PendingRemoved)
	assert.Equal(t, int64(1), outcome.RemovedEntries)
	assert.Empty(t, outcome.Failed())

	updated := reload(t, db, course.ID)
	assert.Equal(t, 0, updated.AvailableSeats)
	assert.Equal(t, 6, updated.Enrolled)

	var payment models.Payment
	require.NoError(t, db.Db.Where("transaction_id = ?", "pi_last").First(&payment).Error)
	ids, err := payment.Courses()
	require.NoError(t, err)
	assert.Equal(t, []uint{course.ID}, ids)
	assert.Equal(t, "u@camp.io", payment.PayerEmail)

	assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ? AND course_id = ?", user.ID, course.ID))
	assert.Equal(t, int64(1), count(t, db, &models.CartItem{}, "user_id = ? AND course_id = ?", user.ID, other.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Enrollment{}, "user_id = ? AND course_id = ?", user.ID, course.ID))
}

func TestConcurrentBuyersForLastSeat(t *testing.T) {
	const buyers = 10

	db := testutil.NewPooledDB(t, 4)
	course := testutil.CreateCourse(t, db, "Climbing", 1, 5)
	users := make([]models.User, buyers)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, fmt.Sprintf("buyer%d@camp.io", i), models.RoleLearner)
		testutil.AddToCart(t, db, users[i], course)
	}

	coord := NewCoordinator(NewGormStore(db.Db), Options{MaxAttempts: 10, Backoff: 5 * time.Millisecond})

	var (
		start     = make(chan struct{})
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		oversold  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(user models.User, n int) {
			defer wg.Done()
			<-start
			_, err := coord.Complete(context.Background(), request(user, fmt.Sprintf("pi_race_%d", n), course.ID))

			mu.Lock()
			defer mu.Unlock()
			var oversell *OversellError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &oversell):
				oversold++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(users[i], i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, buyers-1, oversold)

	updated := reload(t, db, course.ID)
	assert.Equal(t, 0, updated.AvailableSeats)
	assert.Equal(t, 6, updated.Enrolled)
	assert.Equal(t, updated.Capacity, updated.AvailableSeats+updated.Enrolled)

	assert.Equal(t, int64(1), count(t, db, &models.Enrollment{}, "course_id = ?", course.ID))
	assert.Equal(t, int64(buyers), count(t, db, &models.Payment{}, ""))
	assert.Equal(t, int64(buyers-1), count(t, db, &models.ReconciliationTask{}, "status = ?", models.ReconciliationManualReview))
	assert.Equal(t, int64(buyers-1), count(t, db, &models.CartItem{}, "course_id = ?", course.ID))
}

func TestCompleteBatchRemovesExactlyThePaidSet(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "batch@camp.io", models.RoleLearner)
	a := testutil.CreateCourse(t, db, "A", 3, 0)
	b := testutil.CreateCourse(t, db, "B", 3, 0)
	c := testutil.CreateCourse(t, db, "C", 3, 0)
	testutil.AddToCart(t, db, user, a)
	testutil.AddToCart(t, db, user, b)
	testutil.AddToCart(t, db, user, c)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	outcome, err := coord.Complete(context.Background(), request(user, "pi_batch", b.ID, a.ID, a.ID))
	require.NoError(t, err)

	assert.Equal(t, []uint{a.ID, b.ID}, outcome.EnrolledCourses)
	assert.Equal(t, int64(2), outcome.RemovedEntries)
	assert.Equal(t, 2, reload(t, db, a.ID).AvailableSeats)
	assert.Equal(t, 2, reload(t, db, b.ID).AvailableSeats)
	assert.Equal(t, 3, reload(t, db, c.ID).AvailableSeats)
	assert.Equal(t, int64(1), count(t, db, &models.CartItem{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(1), count(t, db, &models.CartItem{}, "course_id = ?", c.ID))
}

func TestOversoldBatchLeavesSeatsUntouched(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "full@camp.io", models.RoleLearner)
	open := testutil.CreateCourse(t, db, "Open", 1, 0)
	full := testutil.CreateCourse(t, db, "Full", 0, 8)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	outcome, err := coord.Complete(context.Background(), request(user, "pi_full", open.ID, full.ID))

	var oversell *OversellError
	require.True(t, errors.As(err, &oversell))
	assert.Equal(t, full.ID, oversell.CourseID)

	var rejected *RejectedAfterPayment
	require.True(t, errors.As(err, &rejected))
	assert.Same(t, outcome, rejected.Outcome)
	assert.True(t, outcome.PaymentRecorded)
	assert.Equal(t, []Step{StepSeats}, outcome.Failed())
	assert.False(t, outcome.SeatsUpdated)

	assert.Equal(t, 1, reload(t, db, open.ID).AvailableSeats)
	assert.Equal(t, 0, reload(t, db, full.ID).AvailableSeats)
	assert.Equal(t, 8, reload(t, db, full.ID).Enrolled)
	assert.Zero(t, count(t, db, &models.Enrollment{}, ""))
}

func TestDuplicateTransactionIsRecordedOnce(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "dup@camp.io", models.RoleLearner)
	a := testutil.CreateCourse(t, db, "A", 5, 0)
	b := testutil.CreateCourse(t, db, "B", 5, 0)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	_, err := coord.Complete(context.Background(), request(user, "pi_dup", a.ID))
	require.NoError(t, err)

	_, err = coord.Complete(context.Background(), request(user, "pi_dup", b.ID))
	var dup *DuplicatePaymentError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "pi_dup", dup.Payment.TransactionID)

	assert.Equal(t, int64(1), count(t, db, &models.Payment{}, "transaction_id = ?", "pi_dup"))
	assert.Equal(t, 5, reload(t, db, b.ID).AvailableSeats)
}

func TestPrecheckRejectsWithoutWriting(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "pre@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Approved", 5, 0)
	pending := testutil.CreateCourse(t, db, "Pending", 5, 0)
	require.NoError(t, db.Db.Model(&pending).Update("status", models.CourseStatusPending).Error)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	ctx := context.Background()

	_, err := coord.Complete(ctx, request(user, "pi_none"))
	assert.ErrorIs(t, err, ErrNoCourses)

	_, err = coord.Complete(ctx, request(user, "", course.ID))
	assert.ErrorIs(t, err, ErrMissingTransaction)

	_, err = coord.Complete(ctx, request(user, "pi_pending", pending.ID))
	assert.ErrorIs(t, err, ErrCourseUnavailable)

	_, err = coord.Complete(ctx, request(user, "pi_missing", 999))
	assert.ErrorIs(t, err, ErrCourseUnavailable)

	_, err = coord.Complete(ctx, request(user, "pi_first", course.ID))
	require.NoError(t, err)
	_, err = coord.Complete(ctx, request(user, "pi_again", course.ID))
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	assert.Equal(t, int64(1), count(t, db, &models.Payment{}, ""))
	assert.Equal(t, 4, reload(t, db, course.ID).AvailableSeats)
}

func TestUnderpaymentIsRejectedBeforeRecording(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "cheap@camp.io", models.RoleLearner)
	a := testutil.CreateCourse(t, db, "A", 5, 0)
	b := testutil.CreateCourse(t, db, "B", 5, 0)

	coord := NewCoordinator(NewGormStore(db.Db), Options{})
	req := request(user, "pi_cheap", a.ID, b.ID)
	req.Amount = 49.99

	_, err := coord.Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrAmountTooLow)
	assert.Zero(t, count(t, db, &models.Payment{}, ""))
	assert.Equal(t, 5, reload(t, db, a.ID).AvailableSeats)

	req.Amount = 50
	_, err = coord.Complete(context.Background(), req)
	assert.NoError(t, err)
}

func TestGuardRejectsConcurrentSubmission(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "guard@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Guarded", 5, 0)

	coord := NewCoordinator(NewGormStore(db.Db), Options{Guard: denyGuard{}})
	_, err := coord.Complete(context.Background(), request(user, "pi_guard", course.ID))
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	assert.Zero(t, count(t, db, &models.Payment{}, ""))
}

func TestSeatConflictIsRetried(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "retry@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Retry", 2, 0)

	store := &flakyStore{GormStore: NewGormStore(db.Db), conflicts: 2}
	coord := NewCoordinator(store, Options{MaxAttempts: 3, Backoff: time.Millisecond})

	_, err := coord.Complete(context.Background(), request(user, "pi_retry", course.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, store.reserveCalls)
	assert.Equal(t, 1, reload(t, db, course.ID).AvailableSeats)
}

func TestSeatFailureIsReconciled(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "seat@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Sailing", 2, 0)
	testutil.AddToCart(t, db, user, course)

	store := &flakyStore{GormStore: NewGormStore(db.Db), conflicts: 5}
	coord := NewCoordinator(store, Options{MaxAttempts: 2, Backoff: time.Millisecond})

	outcome, err := coord.Complete(context.Background(), request(user, "pi_seat", course.ID))
	var partial *PartialFailure
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, StepSeats, partial.Step)
	assert.True(t, outcome.PaymentRecorded)
	assert.Equal(t, []Step{StepSeats}, outcome.Failed())
	assert.Equal(t, 2, reload(t, db, course.ID).AvailableSeats)
	assert.Equal(t, int64(1), count(t, db, &models.ReconciliationTask{}, "status = ? AND step = ?",
		models.ReconciliationOpen, models.StepSeat))

	summary, err := NewReconciler(NewGormStore(db.Db), 10, 3).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)

	assert.Equal(t, 1, reload(t, db, course.ID).AvailableSeats)
	assert.Equal(t, 1, reload(t, db, course.ID).Enrolled)
	assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Payment{}, ""))
}

func TestPendingRemovalFailureIsReconciled(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "cart@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Hiking", 3, 0)
	testutil.AddToCart(t, db, user, course)

	store := &flakyStore{GormStore: NewGormStore(db.Db), removeErr: errors.New("connection reset")}
	coord := NewCoordinator(store, Options{})

	outcome, err := coord.Complete(context.Background(), request(user, "pi_cart", course.ID))
	var partial *PartialFailure
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, StepPending, partial.Step)
	assert.True(t, outcome.SeatsUpdated)
	assert.False(t, outcome.PendingRemoved)
	assert.Equal(t, 2, reload(t, db, course.ID).AvailableSeats)
	assert.Equal(t, int64(1), count(t, db, &models.CartItem{}, "user_id = ?", user.ID))

	summary, err := NewReconciler(NewGormStore(db.Db), 10, 3).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Resolved: 1}, summary)
	assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ?", user.ID))
	assert.Equal(t, 2, reload(t, db, course.ID).AvailableSeats)
}
