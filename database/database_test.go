package database_test

import (
	"testing"

	"summercamp/models"
	"summercamp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesTables(t *testing.T) {
	db := testutil.NewDB(t)

	for _, model := range []interface{}{
		&models.User{}, &models.Course{}, &models.CartItem{}, &models.Payment{},
		&models.Enrollment{}, &models.ReconciliationTask{}, &models.Review{},
	} {
		assert.True(t, db.Db.Migrator().HasTable(model))
	}
}

func TestAvailableSeatsCheckConstraint(t *testing.T) {
	db := testutil.NewDB(t)
	course := testutil.CreateCourse(t, db, "Swimming", 0, 3)

	err := db.Db.Model(&models.Course{}).Where("id = ?", course.ID).
		Update("available_seats", -1).Error
	assert.Error(t, err)
}

func TestPaymentsAreAppendOnly(t *testing.T) {
	db := testutil.NewDB(t)

	payment := models.Payment{
		Reference:     "ref-1",
		TransactionID: "pi_1",
		UserID:        1,
		PayerEmail:    "a@camp.io",
		Amount:        10,
		Currency:      "usd",
		CourseIDs:     models.NewCourseIDs([]uint{1}),
	}
	require.NoError(t, db.Db.Create(&payment).Error)

	err := db.Db.Model(&payment).Update("amount", 0).Error
	assert.ErrorIs(t, err, models.ErrPaymentImmutable)

	err = db.Db.Delete(&payment).Error
	assert.ErrorIs(t, err, models.ErrPaymentImmutable)

	ids, err := payment.Courses()
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}
