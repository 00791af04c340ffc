package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dairy_shop/internal/hash"
	"github.com/Skotchmaster/dairy_shop/internal/models"
)

func SeedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	pw, err := hash.HashPassword("password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Username: username, Email: username + "@dairy.test", PasswordHash: pw, Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCustomer(t *testing.T, db *gorm.DB, userID uint) *models.Customer {
	t.Helper()

	c := &models.Customer{
		UserID:   userID,
		Name:     "Asha",
		Locality: "MG Road",
		City:     "Pune",
		Mobile:   "9000000000",
		Zipcode:  "411001",
		State:    "MH",
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

// SeedProduct creates a product with its stock row.
func SeedProduct(t *testing.T, db *gorm.DB, title string, price string, stock int64) *models.Product {
	t.Helper()

	p := &models.Product{
		Title:           title,
		SellingPrice:    decimal.RequireFromString(price).Add(decimal.NewFromInt(5)),
		DiscountedPrice: decimal.RequireFromString(price),
		Category:        "milk",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Create(&models.Stock{ProductID: p.ID, Quantity: stock}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	return p
}

func StockOf(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()

	var s models.Stock
	if err := db.Where("product_id = ?", productID).First(&s).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return s.Quantity
}
