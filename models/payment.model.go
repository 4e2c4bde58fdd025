package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrPaymentImmutable is returned by the payment hooks when anything tries to
// rewrite or remove a ledger row.
var ErrPaymentImmutable = errors.New("payments are append-only")

// Payment is a ledger entry proving a completed charge. Rows are never
// updated or deleted by the application.
type Payment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Reference     string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	TransactionID string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"transactionId"`
	UserID        uint           `gorm:"index;not null" json:"userId"`
	PayerEmail    string         `gorm:"type:varchar(255);index;not null" json:"email"`
	Amount        float64        `gorm:"not null" json:"price"`
	Currency      string         `gorm:"type:varchar(10);not null" json:"currency"`
	CourseIDs     datatypes.JSON `json:"courseIds"`
	PaidAt        time.Time      `gorm:"not null" json:"date"`
}

// NewCourseIDs encodes the course set referenced by a payment.
func NewCourseIDs(ids []uint) datatypes.JSON {
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}

// Courses decodes the course set referenced by the payment.
func (p *Payment) Courses() ([]uint, error) {
	var ids []uint
	if len(p.CourseIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(p.CourseIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	return ErrPaymentImmutable
}

func (p *Payment) BeforeDelete(tx *gorm.DB) error {
	return ErrPaymentImmutable
}
