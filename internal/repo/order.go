package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderForUser(ctx context.Context, userID, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Product").
		Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// LockOrder reads an order holding its row lock until the transaction ends.
// userID 0 skips the ownership check (admin paths).
func (r *GormRepo) LockOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	q := forUpdate(r.DB.WithContext(ctx)).Where("id = ?", id)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *GormRepo) SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepo) SetOrderDelivery(ctx context.Context, id, deliveryPersonID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("delivery_person_id", deliveryPersonID).Error
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Order{}, id).Error
}

func (r *GormRepo) DeliveryPersonByID(ctx context.Context, id uint) (*models.DeliveryPerson, error) {
	var dp models.DeliveryPerson
	if err := r.DB.WithContext(ctx).First(&dp, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &dp, nil
}

func (r *GormRepo) ListDeliveryPersons(ctx context.Context) ([]models.DeliveryPerson, error) {
	var people []models.DeliveryPerson
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (r *GormRepo) CreateDeliveryPerson(ctx context.Context, dp *models.DeliveryPerson) error {
	return r.DB.WithContext(ctx).Create(dp).Error
}

// SQLite serializes writers on the whole database and has no FOR UPDATE.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
