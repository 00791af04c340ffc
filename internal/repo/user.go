package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *GormRepo) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// AddRefreshToken stores the token hash, never the token itself.
func (r *GormRepo) AddRefreshToken(ctx context.Context, userID uint, tokenHash, jti string, exp time.Time) error {
	rt := models.RefreshToken{
		Token:     tokenHash,
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: exp,
	}
	return r.DB.WithContext(ctx).Create(&rt).Error
}

func (r *GormRepo) RefreshTokenByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&rt).Error; err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

// RevokeRefreshToken flips the revoked flag and reports whether a live token was revoked.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked = ?", jti, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
