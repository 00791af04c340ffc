package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Ledger *ledger.Ledger
	// Index is optional; without it search falls back to the database.
	Index ProductIndex
}

type ProductQuery struct {
	Search   string
	Category string
	Offset   int
	Limit    int
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (int64, []models.Product, error) {
	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		Search:   q.Search,
		Category: q.Category,
		Offset:   q.Offset,
		Limit:    q.Limit,
	})
	if err != nil {
		return 0, nil, classify(err)
	}
	return total, items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}
	if req.SellingPrice.IsNegative() || req.DiscountedPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must be >= 0", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	p := &models.Product{
		Title:           req.Title,
		SellingPrice:    req.SellingPrice,
		DiscountedPrice: req.DiscountedPrice,
		Description:     req.Description,
		Composition:     req.Composition,
		ProdApp:         req.ProdApp,
		Category:        req.Category,
		ProductImage:    req.ProductImage,
	}

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateProduct(ctx, p); err != nil {
			return err
		}
		stock, err := s.Ledger.Ensure(ctx, tx.DB, p.ID, req.Stock)
		if err != nil {
			return err
		}
		p.Stock = stock
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.reindex(ctx, p)
	return p, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		p.Title = *req.Title
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, fmt.Errorf("%w: selling_price must be >= 0", ErrValidation)
		}
		p.SellingPrice = *req.SellingPrice
	}
	if req.DiscountedPrice != nil {
		if req.DiscountedPrice.IsNegative() {
			return nil, fmt.Errorf("%w: discounted_price must be >= 0", ErrValidation)
		}
		p.DiscountedPrice = *req.DiscountedPrice
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Composition != nil {
		p.Composition = *req.Composition
	}
	if req.ProdApp != nil {
		p.ProdApp = *req.ProdApp
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ProductImage != nil {
		p.ProductImage = *req.ProductImage
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, classify(err)
	}

	s.reindex(ctx, p)
	return p, nil
}

// DeleteProduct refuses while any order references the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		ordered, err := tx.ProductHasOrders(ctx, id)
		if err != nil {
			return err
		}
		if ordered {
			return fmt.Errorf("%w: product %d has orders", ErrConflict, id)
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return classify(err)
	}

	if s.Index != nil {
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Index.DeleteProduct(ictx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_error", "product_id", id, "error", err)
		}
	}
	return nil
}

// Search prefers the full-text index and falls back to a substring match
// when no index is configured or the index is unreachable.
func (s *CatalogService) Search(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("%w: q required", ErrValidation)
	}
	if s.Index == nil {
		return s.ListProducts(ctx, ProductQuery{Search: query, Offset: offset, Limit: limit})
	}

	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_query_error", "query", query, "error", err)
		return s.ListProducts(ctx, ProductQuery{Search: query, Offset: offset, Limit: limit})
	}
	items, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, classify(err)
	}
	return total, items, nil
}

func (s *CatalogService) ListStocks(ctx context.Context) ([]models.Stock, error) {
	stocks, err := s.Ledger.List(ctx, s.Repo.DB)
	if err != nil {
		return nil, classify(err)
	}
	return stocks, nil
}

func (s *CatalogService) GetStock(ctx context.Context, productID uint) (*models.Stock, error) {
	stock, err := s.Ledger.Get(ctx, s.Repo.DB, productID)
	if err != nil {
		return nil, classify(err)
	}
	return stock, nil
}

func (s *CatalogService) SetStock(ctx context.Context, productID uint, quantity int64) (*models.Stock, error) {
	var stock *models.Stock
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		stock, err = s.Ledger.Set(ctx, tx.DB, productID, quantity)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return stock, nil
}

func (s *CatalogService) Restock(ctx context.Context, productID uint, quantity int64) (*models.Stock, error) {
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		_, err := s.Ledger.Release(ctx, tx.DB, productID, quantity)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return s.GetStock(ctx, productID)
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Index.IndexProduct(ictx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
	}
}
