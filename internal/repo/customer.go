package repo

import (
	"context"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

func (r *GormRepo) ListCustomers(ctx context.Context, userID uint) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

// CustomerForUser loads a customer only if it belongs to userID.
func (r *GormRepo) CustomerForUser(ctx context.Context, userID, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormRepo) SaveCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CustomerHasOrders(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
