package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/dairy_shop/internal/gateway"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
)

const currency = "inr"

var minAmount = decimal.NewFromInt(50)

type PaymentService struct {
	Repo           *repo.GormRepo
	Gateway        gateway.Gateway
	PublishableKey string
}

type IntentResult struct {
	ClientSecret   string
	PaymentID      uint
	PublishableKey string
}

func (s *PaymentService) CreateIntent(ctx context.Context, userID uint, amount decimal.Decimal) (*IntentResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_intent", "user_id", userID)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: valid amount is required", ErrValidation)
	}
	if amount.LessThan(minAmount) {
		return nil, fmt.Errorf("%w: minimum order amount is %s", ErrValidation, minAmount)
	}
	if s.Gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}

	intent, err := s.Gateway.CreateIntent(ctx, gateway.IntentParams{
		AmountMinor: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    currency,
		UserID:      user.ID,
		Email:       user.Email,
	})
	if err != nil {
		err = gatewayErr(err)
		l.Warn("create_intent_error", "error", err)
		return nil, err
	}

	payment := &models.Payment{
		UserID:                user.ID,
		Amount:                amount,
		StripePaymentIntentID: intent.ID,
	}
	if err := s.Repo.CreatePayment(ctx, payment); err != nil {
		return nil, classify(err)
	}

	l.Info("create_intent_success", "payment_id", payment.ID)
	return &IntentResult{
		ClientSecret:   intent.ClientSecret,
		PaymentID:      payment.ID,
		PublishableKey: s.PublishableKey,
	}, nil
}

// Verify marks the caller's payment paid once the gateway reports success.
func (s *PaymentService) Verify(ctx context.Context, userID uint, intentID string) (*models.Payment, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment intent id is required", ErrValidation)
	}
	if s.Gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	payment, err := s.Repo.PaymentByIntent(ctx, userID, intentID)
	if err != nil {
		return nil, classify(err)
	}
	if payment.Paid {
		return nil, fmt.Errorf("%w: payment already processed", ErrConflict)
	}

	intent, err := s.Gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, gatewayErr(err)
	}
	if intent.Status != gateway.StatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotSucceeded, intent.Status)
	}

	marked, err := s.Repo.MarkPaid(ctx, payment.ID)
	if err != nil {
		return nil, classify(err)
	}
	if !marked {
		return nil, fmt.Errorf("%w: payment already processed", ErrConflict)
	}
	payment.Paid = true
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	payments, err := s.Repo.ListPayments(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return payments, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, userID, id uint) (*models.Payment, error) {
	p, err := s.Repo.PaymentForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, userID, id uint) error {
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		p, err := tx.PaymentForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		if p.Paid {
			return fmt.Errorf("%w: paid payments cannot be deleted", ErrConflict)
		}
		linked, err := tx.PaymentLinked(ctx, id)
		if err != nil {
			return err
		}
		if linked {
			return fmt.Errorf("%w: payment is linked to an order", ErrConflict)
		}
		return tx.DeletePayment(ctx, id)
	})
	return classify(err)
}

func gatewayErr(err error) error {
	var decline *gateway.DeclineError
	if errors.As(err, &decline) {
		return fmt.Errorf("%w: %s", ErrPaymentDeclined, decline.Message)
	}
	return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
}
