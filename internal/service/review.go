package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) List(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews, err := s.Repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, classify(err)
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, userID uint, req transport.CreateReviewRequest) (*models.Review, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product required", ErrValidation)
	}
	if err := validRating(req.Rating); err != nil {
		return nil, err
	}
	if _, err := s.Repo.ProductByID(ctx, req.ProductID); err != nil {
		return nil, classify(err)
	}

	rv := &models.Review{
		UserID:     userID,
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		return nil, classify(err)
	}
	return s.Get(ctx, userID, rv.ID)
}

func (s *ReviewService) Get(ctx context.Context, userID, id uint) (*models.Review, error) {
	rv, err := s.Repo.ReviewForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	return rv, nil
}

func (s *ReviewService) Patch(ctx context.Context, userID, id uint, req transport.PatchReviewRequest) (*models.Review, error) {
	rv, err := s.Repo.ReviewForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	if req.Rating != nil {
		if err := validRating(*req.Rating); err != nil {
			return nil, err
		}
		rv.Rating = *req.Rating
	}
	if req.ReviewText != nil {
		rv.ReviewText = *req.ReviewText
	}
	if err := s.Repo.SaveReview(ctx, rv); err != nil {
		return nil, classify(err)
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id uint) error {
	return classify(s.Repo.DeleteReview(ctx, userID, id))
}

func validRating(r int) error {
	if r < 1 || r > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}
