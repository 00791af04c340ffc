package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items, err := s.Repo.ListCart(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	for i := range items {
		withTotal(&items[i])
	}
	return items, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return nil, classify(err)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, classify(err)
	}
	return s.Get(ctx, userID, item.ID)
}

func (s *CartService) Get(ctx context.Context, userID, id uint) (*models.CartItem, error) {
	item, err := s.Repo.CartItemForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	withTotal(item)
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, id, quantity uint) (*models.CartItem, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	if err := s.Repo.UpdateCartQuantity(ctx, userID, id, quantity); err != nil {
		return nil, classify(err)
	}
	return s.Get(ctx, userID, id)
}

func (s *CartService) Delete(ctx context.Context, userID, id uint) error {
	return classify(s.Repo.DeleteCartItem(ctx, userID, id))
}

func withTotal(item *models.CartItem) {
	if item.Product == nil {
		return
	}
	item.TotalCost = item.Product.DiscountedPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
