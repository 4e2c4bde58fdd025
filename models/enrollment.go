package models

import "time"

// Enrollment is the terminal state of a (user, course) pair. At most one row
// exists per pair.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	PaymentID uint      `gorm:"not null;index" json:"paymentId"`
	CreatedAt time.Time `json:"createdAt"`
}
