package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
)

var (
	ErrValidation          = errors.New("validation")                  // 400
	ErrInvalidQuantity     = errors.New("invalid quantity")            // 400
	ErrInsufficientStock   = errors.New("insufficient stock")          // 400
	ErrNotFound            = errors.New("not found")                   // 404
	ErrConflict            = errors.New("conflict")                    // 409
	ErrInvalidCredentials  = errors.New("invalid credentials")         // 401
	ErrTransient           = errors.New("temporarily unavailable")     // 503
	ErrPaymentDeclined     = errors.New("payment declined")            // 400
	ErrPaymentNotSucceeded = errors.New("payment not succeeded")       // 400
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable") // 503
)

// classify maps store and ledger errors onto the service taxonomy, keeping
// the original error in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrTransient):
		return err
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	case errors.Is(err, ledger.ErrInsufficientStock):
		return fmt.Errorf("%w: %w", ErrInsufficientStock, err)
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repo.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case repo.IsTransient(err):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
