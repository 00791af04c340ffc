package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

// ListReviews returns every user's reviews, optionally for one product.
func (r *GormRepo) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	q := r.DB.WithContext(ctx).Preload("User")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}

	var reviews []models.Review
	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	for i := range reviews {
		withUsername(&reviews[i])
	}
	return reviews, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
}

func (r *GormRepo) ReviewForUser(ctx context.Context, userID, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).Preload("User").
		Where("id = ? AND user_id = ?", id, userID).First(&rv).Error; err != nil {
		return nil, notFound(err)
	}
	withUsername(&rv)
	return &rv, nil
}

func (r *GormRepo) SaveReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(rv).Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func withUsername(rv *models.Review) {
	if rv.User != nil {
		rv.Username = rv.User.Username
	}
}
