package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	dbtest "github.com/Skotchmaster/dairy_shop/internal/testutil"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type fakeIndex struct {
	indexed []uint
	deleted []uint
	hits    []uint
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	return int64(len(f.hits)), f.hits, f.err
}

func newCatalog(t *testing.T, idx ProductIndex) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: repo.New(dbtest.NewSQLite(t)), Ledger: ledger.New(0), Index: idx}
}

func TestCreateProduct_WithStock(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{}
	svc := newCatalog(t, idx)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Title:           "Buffalo Milk",
		SellingPrice:    decimal.NewFromInt(40),
		DiscountedPrice: decimal.NewFromInt(36),
		Category:        "milk",
		Stock:           25,
	})
	require.NoError(t, err)
	require.NotNil(t, p.Stock)
	assert.EqualValues(t, 25, p.Stock.Quantity)
	assert.Equal(t, []uint{p.ID}, idx.indexed)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Title: " "})
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Title: "x", Stock: -1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateProduct_IndexFailureIsIgnored(t *testing.T) {
	t.Parallel()

	svc := newCatalog(t, &fakeIndex{err: errors.New("es down")})
	p, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{Title: "Ghee", Stock: 1})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
}

func TestPatchProduct(t *testing.T) {
	t.Parallel()

	svc := newCatalog(t, nil)
	ctx := context.Background()
	p := dbtest.SeedProduct(t, svc.Repo.DB, "Curd", "40", 5)

	title := "Thick Curd"
	price := decimal.NewFromInt(45)
	got, err := svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Title: &title, DiscountedPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "Thick Curd", got.Title)
	assert.True(t, got.DiscountedPrice.Equal(price))

	neg := decimal.NewFromInt(-1)
	_, err = svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{SellingPrice: &neg})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PatchProduct(ctx, 999, transport.PatchProductRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct_RejectedWhileOrdered(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{}
	svc := newCatalog(t, idx)
	ctx := context.Background()
	db := svc.Repo.DB

	u := dbtest.SeedUser(t, db, "asha", models.RoleUser)
	c := dbtest.SeedCustomer(t, db, u.ID)
	ordered := dbtest.SeedProduct(t, db, "Paneer", "90", 5)
	free := dbtest.SeedProduct(t, db, "Butter", "55", 5)

	orders := &OrderService{Repo: svc.Repo, Ledger: svc.Ledger}
	_, err := orders.PlaceOrder(ctx, PlaceOrderInput{UserID: u.ID, CustomerID: c.ID, ProductID: ordered.ID, Quantity: 1})
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, ordered.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.DeleteProduct(ctx, free.ID))
	_, err = svc.GetProduct(ctx, free.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetStock(ctx, free.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []uint{free.ID}, idx.deleted)
}

func TestStockAdmin(t *testing.T) {
	t.Parallel()

	svc := newCatalog(t, nil)
	ctx := context.Background()
	p := dbtest.SeedProduct(t, svc.Repo.DB, "Lassi", "20", 3)

	s, err := svc.SetStock(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, s.Quantity)

	_, err = svc.SetStock(ctx, p.ID, -4)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	s, err = svc.Restock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 15, s.Quantity)

	_, err = svc.Restock(ctx, 999, 5)
	require.ErrorIs(t, err, ErrNotFound)

	stocks, err := svc.ListStocks(ctx)
	require.NoError(t, err)
	assert.Len(t, stocks, 1)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{}
	svc := newCatalog(t, idx)
	ctx := context.Background()
	a := dbtest.SeedProduct(t, svc.Repo.DB, "Cow Ghee", "550", 3)
	b := dbtest.SeedProduct(t, svc.Repo.DB, "Buffalo Ghee", "500", 3)
	idx.hits = []uint{b.ID, 404, a.ID}

	total, items, err := svc.Search(ctx, "ghee", 0, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)

	_, _, err = svc.Search(ctx, "  ", 0, 6)
	require.ErrorIs(t, err, ErrValidation)

	fallback := &CatalogService{Repo: svc.Repo, Ledger: svc.Ledger}
	total, items, err = fallback.Search(ctx, "cow", 0, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)
}

func TestSearch_IndexDownFallsBackToDatabase(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{err: errors.New("es down")}
	svc := newCatalog(t, idx)
	ctx := context.Background()
	dbtest.SeedProduct(t, svc.Repo.DB, "Cow Ghee", "550", 3)
	dbtest.SeedProduct(t, svc.Repo.DB, "Buffalo Ghee", "500", 3)
	dbtest.SeedProduct(t, svc.Repo.DB, "Toned Milk", "30", 3)

	total, items, err := svc.Search(ctx, "ghee", 0, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	for _, p := range items {
		assert.Contains(t, p.Title, "Ghee")
	}
}
