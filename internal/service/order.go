package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/metrics"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/notify"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
)

const notifyTimeout = 5 * time.Second

type OrderService struct {
	Repo     *repo.GormRepo
	Ledger   *ledger.Ledger
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
}

type PlaceOrderInput struct {
	UserID     uint
	CustomerID uint
	ProductID  uint
	Quantity   int64
	PaymentID  *uint
}

// PlaceOrder reserves stock and records the order in one transaction. Either
// both the order row and the decrement commit, or neither does.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "product_id", in.ProductID, "quantity", in.Quantity)

	if in.Quantity <= 0 {
		s.Metrics.OrderRejected("invalid_quantity")
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}

	var (
		order    *models.Order
		product  *models.Product
		customer *models.Customer
	)
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		customer, err = tx.CustomerForUser(ctx, in.UserID, in.CustomerID)
		if err != nil {
			return fmt.Errorf("customer %d: %w", in.CustomerID, err)
		}
		product, err = tx.ProductByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("product %d: %w", in.ProductID, err)
		}
		total := product.DiscountedPrice.Mul(decimal.NewFromInt(in.Quantity))
		if in.PaymentID != nil {
			if err := claimPayment(ctx, tx, in.UserID, *in.PaymentID, total); err != nil {
				return err
			}
		}

		left, err := s.Ledger.Reserve(ctx, tx.DB, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if product.Stock != nil {
			product.Stock.Quantity = left
		}

		order = &models.Order{
			UserID:     in.UserID,
			CustomerID: customer.ID,
			ProductID:  product.ID,
			Quantity:   in.Quantity,
			Status:     models.OrderPlaced,
			TotalCost:  total,
			PaymentID:  in.PaymentID,
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		err = classify(err)
		s.Metrics.OrderRejected(rejectReason(err))
		l.Warn("place_order_error", "error", err)
		return nil, err
	}

	s.Metrics.OrderPlaced()
	order.Product = product
	l.Info("place_order_success", "order_id", order.ID)

	s.notify(ctx, orderEvent(notify.EventOrderPlaced, order, product, customer))
	return order, nil
}

// claimPayment checks that a paid payment covers total and backs no other order.
func claimPayment(ctx context.Context, tx *repo.GormRepo, userID, paymentID uint, total decimal.Decimal) error {
	payment, err := tx.LockPaymentForUser(ctx, userID, paymentID)
	if err != nil {
		return fmt.Errorf("payment %d: %w", paymentID, err)
	}
	if !payment.Paid {
		return fmt.Errorf("%w: payment %d is not paid", ErrValidation, payment.ID)
	}
	if payment.Amount.LessThan(total) {
		return fmt.Errorf("%w: payment %d covers %s, order total is %s", ErrValidation, payment.ID, payment.Amount, total)
	}
	linked, err := tx.PaymentLinked(ctx, payment.ID)
	if err != nil {
		return err
	}
	if linked {
		return fmt.Errorf("%w: payment %d already backs an order", ErrConflict, payment.ID)
	}
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := s.Repo.OrderForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	return order, nil
}

// CancelOrder moves a Placed or Shipped order to Cancelled and returns its
// quantity to the ledger in the same transaction.
func (s *OrderService) CancelOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	return s.cancel(ctx, userID, id)
}

func (s *OrderService) cancel(ctx context.Context, userID, id uint) (*models.Order, error) {
	var order *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.LockOrder(ctx, userID, id)
		if err != nil {
			return err
		}

		switch order.Status {
		case models.OrderPlaced, models.OrderShipped:
		default:
			return fmt.Errorf("%w: order %d is %s", ErrConflict, id, order.Status)
		}

		if _, err := s.Ledger.Release(ctx, tx.DB, order.ProductID, order.Quantity); err != nil {
			return err
		}
		order.Status = models.OrderCancelled
		return tx.SetOrderStatus(ctx, order.ID, models.OrderCancelled)
	})
	if err != nil {
		return nil, classify(err)
	}
	logging.FromContext(ctx).Info("cancel_order_success", "order_id", id)
	return order, nil
}

// UpdateStatus only moves forward: Placed, Shipped, Delivered. Cancelled goes
// through the cancel path so stock is released.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if next == models.OrderCancelled {
		return s.cancel(ctx, 0, id)
	}

	var order *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.LockOrder(ctx, 0, id)
		if err != nil {
			return err
		}
		if statusRank(next) <= statusRank(order.Status) || order.Status == models.OrderCancelled {
			return fmt.Errorf("%w: cannot move order %d from %s to %s", ErrConflict, id, order.Status, next)
		}
		order.Status = next
		return tx.SetOrderStatus(ctx, id, next)
	})
	if err != nil {
		return nil, classify(err)
	}
	return order, nil
}

func (s *OrderService) AssignDelivery(ctx context.Context, id, deliveryPersonID uint) (*models.Order, error) {
	if deliveryPersonID == 0 {
		return nil, fmt.Errorf("%w: delivery_person required", ErrValidation)
	}

	var (
		order    *models.Order
		person   *models.DeliveryPerson
		product  *models.Product
		customer *models.Customer
	)
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.LockOrder(ctx, 0, id)
		if err != nil {
			return err
		}
		if order.Status == models.OrderCancelled || order.Status == models.OrderDelivered {
			return fmt.Errorf("%w: order %d is %s", ErrConflict, id, order.Status)
		}
		person, err = tx.DeliveryPersonByID(ctx, deliveryPersonID)
		if err != nil {
			return fmt.Errorf("delivery person %d: %w", deliveryPersonID, err)
		}
		if err := tx.SetOrderDelivery(ctx, id, person.ID); err != nil {
			return err
		}
		order.DeliveryPersonID = &person.ID

		product, err = tx.ProductByID(ctx, order.ProductID)
		if err != nil {
			return err
		}
		customer, err = tx.CustomerForUser(ctx, order.UserID, order.CustomerID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	ev := orderEvent(notify.EventDeliveryAssigned, order, product, customer)
	ev.DeliveryName = person.Name
	ev.DeliveryEmail = person.Email
	s.notify(ctx, ev)
	return order, nil
}

// DeleteOrder removes only cancelled orders, whose stock is already back.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, id uint) error {
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, userID, id)
		if err != nil {
			return err
		}
		if order.Status != models.OrderCancelled {
			return fmt.Errorf("%w: only cancelled orders can be deleted", ErrConflict)
		}
		return tx.DeleteOrder(ctx, id)
	})
	return classify(err)
}

func (s *OrderService) ListDeliveryPersons(ctx context.Context) ([]models.DeliveryPerson, error) {
	people, err := s.Repo.ListDeliveryPersons(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return people, nil
}

func (s *OrderService) CreateDeliveryPerson(ctx context.Context, name, email, phone string) (*models.DeliveryPerson, error) {
	if blank(name, email) {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	dp := &models.DeliveryPerson{Name: name, Email: email, Phone: phone}
	if err := s.Repo.CreateDeliveryPerson(ctx, dp); err != nil {
		return nil, classify(err)
	}
	return dp, nil
}

// notify publishes after commit. A failure is logged and counted, never returned.
func (s *OrderService) notify(ctx context.Context, ev notify.Event) {
	if s.Notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.Notifier.Notify(nctx, ev); err != nil {
		s.Metrics.NotifyFailed()
		logging.FromContext(ctx).Error("notify_error", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}

func orderEvent(typ string, o *models.Order, p *models.Product, c *models.Customer) notify.Event {
	ev := notify.Event{
		Type:       typ,
		OrderID:    o.ID,
		OccurredAt: time.Now().UTC(),
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		TotalCost:  o.TotalCost.StringFixed(2),
		Status:     string(o.Status),
	}
	if p != nil {
		ev.ProductTitle = p.Title
	}
	if c != nil {
		ev.CustomerName = c.Name
		ev.CustomerMobile = c.Mobile
		ev.CustomerAddress = fmt.Sprintf("%s, %s, %s %s", c.Locality, c.City, c.State, c.Zipcode)
	}
	return ev
}

func statusRank(s models.OrderStatus) int {
	switch s {
	case models.OrderPlaced:
		return 1
	case models.OrderShipped:
		return 2
	case models.OrderDelivered:
		return 3
	}
	return 0
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrValidation):
		return "validation"
	}
	return "internal"
}
