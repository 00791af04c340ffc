package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/dairy_shop/internal/models"
)

type ProductFilter struct {
	Search   string
	Category string
	Offset   int
	Limit    int
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	filtered := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Product{})
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := filtered().Preload("Stock").Order("id ASC").
		Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	if err := r.fillRatings(ctx, items); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Stock").First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	items := []models.Product{p}
	if err := r.fillRatings(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Stock").Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Stock").Save(p).Error
}

func (r *GormRepo) ProductHasOrders(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteProduct removes the product together with its stock row and the
// cart, wishlist and review rows pointing at it.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	for _, m := range []any{&models.Stock{}, &models.CartItem{}, &models.WishlistItem{}, &models.Review{}} {
		if err := db.Where("product_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}

	res := db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) fillRatings(ctx context.Context, items []models.Product) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	var rows []struct {
		ProductID uint
		Avg       float64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("product_id, AVG(rating) AS avg").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	avg := make(map[uint]float64, len(rows))
	for _, row := range rows {
		avg[row.ProductID] = row.Avg
	}
	for i := range items {
		items[i].AverageRating = avg[items[i].ID]
	}
	return nil
}

// ProductsByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var found []models.Product
	if err := r.DB.WithContext(ctx).Preload("Stock").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	if err := r.fillRatings(ctx, found); err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
