package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAmount is returned for prices that do not convert to a positive
// number of minor units.
var ErrInvalidAmount = errors.New("amount must be a positive number of minor currency units")

// Intent is the part of a provider payment intent the client needs.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Gateway creates payment intents at an external provider. Implementations
// perform no local state changes.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error)
}

// GatewayError wraps any upstream failure, including timeouts.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("payment gateway error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment gateway error: %s", e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ToMinorUnits converts a decimal price into minor units by truncation, the
// way the provider integration always has. The small bias absorbs binary
// float error so 19.99 becomes 1999 rather than 1998.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidAmount
	}
	minor := int64(math.Trunc(price*100 + 1e-6))
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}
