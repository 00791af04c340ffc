// Package gateway adapts the card payment provider.
package gateway

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("payment gateway unavailable")

// DeclineError carries the provider's user-facing message for a rejected card.
type DeclineError struct {
	Message string
}

func (e *DeclineError) Error() string { return "card declined: " + e.Message }

type IntentParams struct {
	AmountMinor int64
	Currency    string
	UserID      uint
	Email       string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

const StatusSucceeded = "succeeded"

type Gateway interface {
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
