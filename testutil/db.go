// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"summercamp/database"
	"summercamp/models"

	"gorm.io/driver/sqlite"
)

// NewDB returns a migrated sqlite database in the test's temp dir. All
// queries share one connection.
func NewDB(t *testing.T) *database.DbInstance {
	t.Helper()
	return NewPooledDB(t, 1)
}

// NewPooledDB is NewDB with up to conns connections, so concurrent callers
// really overlap. Writers wait on sqlite's busy timeout.
func NewPooledDB(t *testing.T, conns int) *database.DbInstance {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(sqlite.Open(path + "?_busy_timeout=10000&_foreign_keys=on&_journal_mode=WAL"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.Db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, db *database.DbInstance, email, role string) models.User {
	t.Helper()

	user := models.User{Name: email, Email: email, Role: role}
	if err := db.Db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateCourse inserts an approved course with the given seat split.
func CreateCourse(t *testing.T, db *database.DbInstance, title string, available, enrolled int) models.Course {
	t.Helper()

	course := models.Course{
		InstructorID:   1,
		Title:          title,
		Price:          25,
		Capacity:       available + enrolled,
		AvailableSeats: available,
		Enrolled:       enrolled,
		Status:         models.CourseStatusApproved,
	}
	if err := db.Db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

// AddToCart inserts a pending cart entry for user and course.
func AddToCart(t *testing.T, db *database.DbInstance, user models.User, course models.Course) models.CartItem {
	t.Helper()

	item := models.CartItem{
		UserID:      user.ID,
		Email:       user.Email,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Price:       course.Price,
	}
	if err := db.Db.Create(&item).Error; err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	return item
}
