package enrollment

import (
	"context"
	"errors"
	"testing"

	"summercamp/models"
	"summercamp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPayment(t *testing.T, store *GormStore, user models.User, txn string, courses ...uint) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		Reference:     txn + "-ref",
		TransactionID: txn,
		UserID:        user.ID,
		PayerEmail:    user.Email,
		Amount:        25,
		Currency:      "usd",
		CourseIDs:     models.NewCourseIDs(courses),
	}
	require.NoError(t, store.RecordPayment(context.Background(), payment))
	return payment
}

func TestReconcileEscalatesWhenSeatIsGone(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db.Db)
	user := testutil.CreateUser(t, db, "late@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Full", 0, 3)
	payment := seedPayment(t, store, user, "pi_late", course.ID)

	require.NoError(t, store.OpenTasks(context.Background(), []models.ReconciliationTask{{
		PaymentID: payment.ID, UserID: user.ID, CourseID: course.ID,
		Step: models.StepSeat, Status: models.ReconciliationOpen,
	}}))

	summary, err := NewReconciler(store, 10, 5).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Escalated: 1}, summary)

	var task models.ReconciliationTask
	require.NoError(t, db.Db.First(&task).Error)
	assert.Equal(t, models.ReconciliationManualReview, task.Status)
	assert.Equal(t, 1, task.Attempts)
	assert.NotEmpty(t, task.LastError)
	assert.Equal(t, 0, reload(t, db, course.ID).AvailableSeats)
}

func TestReconcileTreatsExistingEnrollmentAsDone(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db.Db)
	user := testutil.CreateUser(t, db, "twice@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Kayak", 2, 0)
	testutil.AddToCart(t, db, user, course)
	payment := seedPayment(t, store, user, "pi_twice", course.ID)

	ctx := context.Background()
	require.NoError(t, store.ReserveSeats(ctx, payment.ID, user.ID, []uint{course.ID}))
	require.NoError(t, store.OpenTasks(ctx, []models.ReconciliationTask{{
		PaymentID: payment.ID, UserID: user.ID, CourseID: course.ID,
		Step: models.StepSeat, Status: models.ReconciliationOpen,
	}}))

	summary, err := NewReconciler(store, 10, 5).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, reload(t, db, course.ID).AvailableSeats)
	assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ?", user.ID))
}

func TestReconcileGivesUpAfterMaxAttempts(t *testing.T) {
	db := testutil.NewDB(t)
	gormStore := NewGormStore(db.Db)
	user := testutil.CreateUser(t, db, "stuck@camp.io", models.RoleLearner)
	course := testutil.CreateCourse(t, db, "Stuck", 2, 0)
	testutil.AddToCart(t, db, user, course)
	payment := seedPayment(t, gormStore, user, "pi_stuck", course.ID)

	ctx := context.Background()
	require.NoError(t, gormStore.OpenTasks(ctx, []models.ReconciliationTask{{
		PaymentID: payment.ID, UserID: user.ID, CourseID: course.ID,
		Step: models.StepCart, Status: models.ReconciliationOpen,
	}}))

	store := &flakyStore{GormStore: gormStore, removeErr: errors.New("disk full")}
	reconciler := NewReconciler(store, 10, 2)

	summary, err := reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Retry: 1}, summary)

	summary, err = reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Escalated: 1}, summary)

	summary, err = reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)

	var task models.ReconciliationTask
	require.NoError(t, db.Db.First(&task).Error)
	assert.Equal(t, models.ReconciliationManualReview, task.Status)
	assert.Equal(t, "disk full", task.LastError)
}
