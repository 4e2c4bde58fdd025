package models

import "time"

// ReconciliationStep names the coordinator sub-step that must be replayed.
type ReconciliationStep string

const (
	StepSeat ReconciliationStep = "SEAT"
	StepCart ReconciliationStep = "CART"
)

// ReconciliationStatus tracks a task through the reconciler.
type ReconciliationStatus string

const (
	ReconciliationOpen         ReconciliationStatus = "OPEN"
	ReconciliationResolved     ReconciliationStatus = "RESOLVED"
	ReconciliationManualReview ReconciliationStatus = "MANUAL_REVIEW"
)

// ReconciliationTask records a step that failed after its payment was
// recorded. The payment row stays the source of truth for the replay.
type ReconciliationTask struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	PaymentID  uint                 `gorm:"index;not null" json:"paymentId"`
	UserID     uint                 `gorm:"not null" json:"userId"`
	CourseID   uint                 `gorm:"not null" json:"courseId"`
	Step       ReconciliationStep   `gorm:"type:varchar(20);not null" json:"step"`
	Status     ReconciliationStatus `gorm:"type:varchar(20);index;default:'OPEN'" json:"status"`
	Attempts   int                  `gorm:"default:0" json:"attempts"`
	LastError  string               `gorm:"type:text" json:"lastError"`
	ResolvedAt *time.Time           `json:"resolvedAt"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}
