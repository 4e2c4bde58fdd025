package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"summercamp/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store is the storage the coordinator and reconciler work against.
type Store interface {
	LoadCourses(ctx context.Context, ids []uint) ([]models.Course, error)
	EnrolledCourses(ctx context.Context, userID uint, courseIDs []uint) ([]uint, error)
	FindPayment(ctx context.Context, transactionID string) (*models.Payment, error)
	LoadPayment(ctx context.Context, id uint) (*models.Payment, error)
	RecordPayment(ctx context.Context, payment *models.Payment) error
	// ReserveSeats takes one seat per course and writes the enrollments,
	// all or nothing.
	ReserveSeats(ctx context.Context, paymentID, userID uint, courseIDs []uint) error
	RemovePending(ctx context.Context, userID uint, courseIDs []uint) (int64, error)
	OpenTasks(ctx context.Context, tasks []models.ReconciliationTask) error
	PendingTasks(ctx context.Context, limit int) ([]models.ReconciliationTask, error)
	SaveTask(ctx context.Context, task *models.ReconciliationTask) error
}

// GormStore implements Store on the relational schema.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadCourses(ctx context.Context, ids []uint) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GormStore) EnrolledCourses(ctx context.Context, userID uint, courseIDs []uint) ([]uint, error) {
	var enrolled []uint
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &enrolled).Error
	return enrolled, err
}

func (s *GormStore) FindPayment(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	res := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Limit(1).Find(&payment)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (s *GormStore) LoadPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *GormStore) RecordPayment(ctx context.Context, payment *models.Payment) error {
	err := s.db.WithContext(ctx).Create(payment).Error
	if isDuplicateKey(err) {
		return ErrDuplicateTransaction
	}
	return err
}

func (s *GormStore) ReserveSeats(ctx context.Context, paymentID, userID uint, courseIDs []uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, courseID := range courseIDs {
			// Single conditional update: the seat check and the decrement
			// happen in one statement.
			res := tx.Model(&models.Course{}).
				Where("id = ? AND status = ? AND available_seats > 0", courseID, models.CourseStatusApproved).
				Updates(map[string]interface{}{
					"available_seats": gorm.Expr("available_seats - ?", 1),
					"enrolled":        gorm.Expr("enrolled + ?", 1),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &OversellError{CourseID: courseID}
			}

			enrollment := models.Enrollment{UserID: userID, CourseID: courseID, PaymentID: paymentID}
			if err := tx.Create(&enrollment).Error; err != nil {
				if isDuplicateKey(err) {
					return fmt.Errorf("course %d: %w", courseID, ErrAlreadyEnrolled)
				}
				return err
			}
		}
		return nil
	})
	if err != nil && isRetryable(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (s *GormStore) RemovePending(ctx context.Context, userID uint, courseIDs []uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) OpenTasks(ctx context.Context, tasks []models.ReconciliationTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&tasks).Error
}

func (s *GormStore) PendingTasks(ctx context.Context, limit int) ([]models.ReconciliationTask, error) {
	var tasks []models.ReconciliationTask
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ReconciliationOpen).
		Order("id asc").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (s *GormStore) SaveTask(ctx context.Context, task *models.ReconciliationTask) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}

// isRetryable reports serialization failures and deadlocks for each
// supported driver.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
