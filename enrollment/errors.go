package enrollment

import (
	"errors"
	"fmt"

	"summercamp/models"
)

var (
	ErrNoCourses          = errors.New("payment must reference at least one course")
	ErrMissingTransaction = errors.New("payment transaction id is required")
	ErrCourseUnavailable  = errors.New("course not found or not approved")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in course")
	ErrPaymentInProgress  = errors.New("payment is already being processed")
	ErrAmountTooLow       = errors.New("payment amount is below the price of the courses")

	// ErrConflict marks transient storage conflicts (serialization failure,
	// deadlock, busy database) that are worth retrying.
	ErrConflict = errors.New("storage conflict")

	// ErrDuplicateTransaction is returned by a Store when the transaction id
	// already has a payment row.
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

// OversellError reports that a course had no seat left when the conditional
// update was applied. No seat counts were changed.
type OversellError struct {
	CourseID uint
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("course %d has no available seats", e.CourseID)
}

// DuplicatePaymentError is returned when a transaction id was already processed.
type DuplicatePaymentError struct {
	Payment *models.Payment
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("transaction %s already processed", e.Payment.TransactionID)
}

// PartialFailure means the payment is recorded but a later step failed. The
// failed work is persisted as reconciliation tasks.
type PartialFailure struct {
	Outcome *Outcome
	Step    Step
	Err     error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("payment recorded but %s step failed: %v", e.Step, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// RejectedAfterPayment means the payment is recorded but no seat was taken
// because a course was full or already held by the user. The payment is left
// for manual review.
type RejectedAfterPayment struct {
	Outcome *Outcome
	Err     error
}

func (e *RejectedAfterPayment) Error() string { return e.Err.Error() }

func (e *RejectedAfterPayment) Unwrap() error { return e.Err }
