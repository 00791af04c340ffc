package repo

import (
	"context"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormRepo) PaymentForUser(ctx context.Context, userID, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// LockPaymentForUser reads the payment under a row lock so that two orders
// cannot claim it concurrently.
func (r *GormRepo) LockPaymentForUser(ctx context.Context, userID, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := forUpdate(r.DB.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormRepo) PaymentByIntent(ctx context.Context, userID uint, intentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).
		Where("stripe_payment_intent_id = ? AND user_id = ?", intentID, userID).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// MarkPaid flips paid once; false means it was already paid.
func (r *GormRepo) MarkPaid(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND paid = ?", id, false).
		Update("paid", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) DeletePayment(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

func (r *GormRepo) PaymentLinked(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("payment_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
