package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items, err := s.Repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product required", ErrValidation)
	}
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return nil, classify(err)
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddToWishlist(ctx, item); err != nil {
		return nil, classify(err)
	}
	return item, nil
}

func (s *WishlistService) Get(ctx context.Context, userID, id uint) (*models.WishlistItem, error) {
	item, err := s.Repo.WishlistItemForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	return item, nil
}

func (s *WishlistService) Delete(ctx context.Context, userID, id uint) error {
	return classify(s.Repo.DeleteWishlistItem(ctx, userID, id))
}
