// Package ledger owns per-product available stock. Every mutation takes the
// stock row's exclusive lock for the read-decide-write sequence, so concurrent
// callers on one product are serialized and no update is lost.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

var (
	ErrNotFound          = errors.New("stock record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

type Ledger struct {
	// LockTimeout bounds the wait for a contended stock row (PostgreSQL only).
	LockTimeout time.Duration
}

func New(lockTimeout time.Duration) *Ledger {
	return &Ledger{LockTimeout: lockTimeout}
}

// Reserve decrements available stock by quantity inside tx and returns what is
// left. Nothing is written when the stock cannot cover the request.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, productID uint, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	stock, err := l.lock(ctx, tx, productID)
	if err != nil {
		return 0, err
	}
	if quantity > stock.Quantity {
		return stock.Quantity, fmt.Errorf("%w: product %d has %d, requested %d",
			ErrInsufficientStock, productID, stock.Quantity, quantity)
	}

	res := tx.WithContext(ctx).Model(&models.Stock{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return stock.Quantity, fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}

	return stock.Quantity - quantity, nil
}

// ReserveAndCommit runs Reserve in its own transaction; the decrement is
// durable once it returns without error.
func (l *Ledger) ReserveAndCommit(ctx context.Context, db *gorm.DB, productID uint, quantity int64) (int64, error) {
	var left int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		left, err = l.Reserve(ctx, tx, productID, quantity)
		return err
	})
	return left, err
}

// Release puts quantity back, e.g. when an order is cancelled or stock is restocked.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, productID uint, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	stock, err := l.lock(ctx, tx, productID)
	if err != nil {
		return 0, err
	}

	if err := tx.WithContext(ctx).Model(&models.Stock{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return 0, err
	}

	return stock.Quantity + quantity, nil
}

func (l *Ledger) Set(ctx context.Context, tx *gorm.DB, productID uint, quantity int64) (*models.Stock, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	stock, err := l.lock(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	stock.Quantity = quantity
	stock.UpdatedAt = time.Now().UTC()
	if err := tx.WithContext(ctx).Model(stock).
		Updates(map[string]any{"quantity": stock.Quantity, "updated_at": stock.UpdatedAt}).Error; err != nil {
		return nil, err
	}
	return stock, nil
}

// Ensure creates the product's stock row if it does not exist yet.
func (l *Ledger) Ensure(ctx context.Context, tx *gorm.DB, productID uint, initial int64) (*models.Stock, error) {
	if initial < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, initial)
	}

	stock := models.Stock{ProductID: productID, Quantity: initial, UpdatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(&stock).Error; err != nil {
		return nil, err
	}
	return l.Get(ctx, tx, productID)
}

func (l *Ledger) Get(ctx context.Context, db *gorm.DB, productID uint) (*models.Stock, error) {
	var stock models.Stock
	if err := db.WithContext(ctx).Where("product_id = ?", productID).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	return &stock, nil
}

func (l *Ledger) List(ctx context.Context, db *gorm.DB) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := db.WithContext(ctx).Order("product_id ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// lock reads the stock row holding its exclusive lock until tx ends.
func (l *Ledger) lock(ctx context.Context, tx *gorm.DB, productID uint) (*models.Stock, error) {
	q := tx.WithContext(ctx)

	if supportsRowLocks(tx) {
		if l.LockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.LockTimeout.Milliseconds())
			if err := q.Exec(stmt).Error; err != nil {
				return nil, err
			}
		}
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var stock models.Stock
	if err := q.Where("product_id = ?", productID).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	return &stock, nil
}

// SQLite has no row locks; it serializes writers on the whole database instead.
func supportsRowLocks(tx *gorm.DB) bool {
	return tx.Dialector.Name() == "postgres"
}
