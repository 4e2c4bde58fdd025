package payment

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// StripeGateway creates card payment intents through the Stripe REST API.
type StripeGateway struct {
	client *resty.Client
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeGateway(baseURL, secretKey string, timeout time.Duration) *StripeGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(timeout)
	return &StripeGateway{client: client}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	var result stripeIntent
	var failure stripeError
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":                 strconv.FormatInt(amountMinor, 10),
			"currency":               currency,
			"payment_method_types[]": "card",
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/payment_intents")
	if err != nil {
		return nil, &GatewayError{Message: "request failed", Err: err}
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if result.ClientSecret == "" {
		return nil, &GatewayError{StatusCode: resp.StatusCode(), Message: "response carried no client secret"}
	}

	return &Intent{
		ID:           result.ID,
		ClientSecret: result.ClientSecret,
		Amount:       result.Amount,
		Currency:     result.Currency,
	}, nil
}
