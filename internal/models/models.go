package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"not null"                 json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type Customer struct {
	ID       uint   `gorm:"primaryKey"     json:"id"`
	UserID   uint   `gorm:"index;not null" json:"user"`
	Name     string `gorm:"not null"       json:"name"`
	Locality string `gorm:"not null"       json:"locality"`
	City     string `gorm:"not null"       json:"city"`
	Mobile   string `gorm:"not null"       json:"mobile"`
	Zipcode  string `gorm:"not null"       json:"zipcode"`
	State    string `gorm:"not null"       json:"state"`
}

type Product struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Title           string          `gorm:"not null"                   json:"title"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"selling_price"`
	DiscountedPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discounted_price"`
	Description     string          `json:"description"`
	Composition     string          `json:"composition"`
	ProdApp         string          `json:"prodapp"`
	Category        string          `gorm:"index"                      json:"category"`
	ProductImage    string          `json:"product_image"`

	AverageRating float64 `gorm:"-"                        json:"average_rating"`
	Stock         *Stock  `gorm:"foreignKey:ProductID"     json:"stock,omitempty"`
}

// Stock is the single source of truth for available quantity; only the ledger mutates it.
type Stock struct {
	ID        uint      `gorm:"primaryKey"                      json:"id"`
	ProductID uint      `gorm:"uniqueIndex;not null"            json:"product"`
	Quantity  int64     `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey"                               json:"id"`
	UserID    uint     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"-"`
	ProductID uint     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  uint     `gorm:"default:1;check:quantity > 0"             json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID"                     json:"product,omitempty"`

	TotalCost decimal.Decimal `gorm:"-" json:"total_cost"`
}

type WishlistItem struct {
	ID        uint `gorm:"primaryKey"                                     json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"-"`
	ProductID uint `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product"`
}

type Review struct {
	ID         uint      `gorm:"primaryKey"                                json:"id"`
	UserID     uint      `gorm:"index;not null"                            json:"-"`
	ProductID  uint      `gorm:"index;not null"                            json:"product"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User  `gorm:"foreignKey:UserID" json:"-"`
	Username string `gorm:"-"                 json:"user"`
}

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "Placed"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID               uint            `gorm:"primaryKey"                  json:"id"`
	UserID           uint            `gorm:"index;not null"              json:"user"`
	CustomerID       uint            `gorm:"index;not null"              json:"customer"`
	ProductID        uint            `gorm:"index;not null"              json:"product_id"`
	Quantity         int64           `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status           OrderStatus     `gorm:"not null;default:Placed"     json:"status"`
	TotalCost        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_cost"`
	PaymentID        *uint           `json:"payment,omitempty"`
	DeliveryPersonID *uint           `json:"delivery_person,omitempty"`
	CreatedAt        time.Time       `json:"ordered_date"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

type Payment struct {
	ID                    uint            `gorm:"primaryKey"                  json:"id"`
	UserID                uint            `gorm:"index;not null"              json:"-"`
	Amount                decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	StripePaymentIntentID string          `gorm:"uniqueIndex;not null"        json:"stripe_payment_intent_id"`
	Paid                  bool            `gorm:"default:false"               json:"paid"`
	CreatedAt             time.Time       `json:"created_at"`
}

type DeliveryPerson struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null"   json:"name"`
	Email string `gorm:"not null"   json:"email"`
	Phone string `json:"phone"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Customer{},
		&Product{},
		&Stock{},
		&CartItem{},
		&WishlistItem{},
		&Review{},
		&Payment{},
		&DeliveryPerson{},
		&Order{},
	}
}
