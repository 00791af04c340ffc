package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	dbtest "github.com/Skotchmaster/dairy_shop/internal/testutil"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

func TestCartService(t *testing.T) {
	t.Parallel()

	db := dbtest.NewSQLite(t)
	svc := &CartService{Repo: repo.New(db)}
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, "cart", models.RoleUser)
	p := dbtest.SeedProduct(t, db, "Curd", "40", 5)

	item, err := svc.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "80", item.TotalCost.String())

	item, err = svc.AddToCart(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, item.Quantity)

	_, err = svc.AddToCart(ctx, u.ID, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateQuantity(ctx, u.ID, item.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	item, err = svc.UpdateQuantity(ctx, u.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "200", item.TotalCost.String())

	require.ErrorIs(t, svc.Delete(ctx, u.ID+1, item.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, u.ID, item.ID))

	items, err := svc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistService_Duplicate(t *testing.T) {
	t.Parallel()

	db := dbtest.NewSQLite(t)
	svc := &WishlistService{Repo: repo.New(db)}
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, "wish", models.RoleUser)
	p := dbtest.SeedProduct(t, db, "Ghee", "550", 5)

	item, err := svc.Add(ctx, u.ID, p.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.Delete(ctx, u.ID, item.ID))
	_, err = svc.Get(ctx, u.ID, item.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService(t *testing.T) {
	t.Parallel()

	db := dbtest.NewSQLite(t)
	svc := &ReviewService{Repo: repo.New(db)}
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, "critic", models.RoleUser)
	p := dbtest.SeedProduct(t, db, "Paneer", "90", 5)

	_, err := svc.Create(ctx, u.ID, transport.CreateReviewRequest{ProductID: p.ID, Rating: 6})
	require.ErrorIs(t, err, ErrValidation)

	rv, err := svc.Create(ctx, u.ID, transport.CreateReviewRequest{ProductID: p.ID, Rating: 4, ReviewText: "soft"})
	require.NoError(t, err)
	assert.Equal(t, "critic", rv.Username)

	rating := 5
	rv, err = svc.Patch(ctx, u.ID, rv.ID, transport.PatchReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, rv.Rating)

	all, err := svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.ErrorIs(t, svc.Delete(ctx, u.ID+1, rv.ID), ErrNotFound)
}

func TestCustomerService(t *testing.T) {
	t.Parallel()

	db := dbtest.NewSQLite(t)
	svc := &CustomerService{Repo: repo.New(db)}
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, "cust", models.RoleUser)

	_, err := svc.Create(ctx, u.ID, transport.CustomerRequest{Name: "Asha"})
	require.ErrorIs(t, err, ErrValidation)

	c, err := svc.Create(ctx, u.ID, transport.CustomerRequest{
		Name: "Asha", Locality: "MG Road", City: "Pune", Mobile: "9", Zipcode: "411001", State: "MH",
	})
	require.NoError(t, err)

	city := "Mumbai"
	c, err = svc.Patch(ctx, u.ID, c.ID, transport.PatchCustomerRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", c.City)

	empty := ""
	_, err = svc.Patch(ctx, u.ID, c.ID, transport.PatchCustomerRequest{Name: &empty})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.Delete(ctx, u.ID, c.ID))
	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
