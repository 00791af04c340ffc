package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`

	Name     string `json:"name"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	Mobile   string `json:"mobile"`
	Zipcode  string `json:"zipcode"`
	State    string `json:"state"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       uint   `json:"user_id"`
	CustomerID   uint   `json:"customer_id,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

type CreateProductRequest struct {
	Title           string          `json:"title"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Description     string          `json:"description"`
	Composition     string          `json:"composition"`
	ProdApp         string          `json:"prodapp"`
	Category        string          `json:"category"`
	ProductImage    string          `json:"product_image"`
	Stock           int64           `json:"stock"`
}

type PatchProductRequest struct {
	Title           *string          `json:"title"`
	SellingPrice    *decimal.Decimal `json:"selling_price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	Description     *string          `json:"description"`
	Composition     *string          `json:"composition"`
	ProdApp         *string          `json:"prodapp"`
	Category        *string          `json:"category"`
	ProductImage    *string          `json:"product_image"`
}

type StockQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type CustomerRequest struct {
	Name     string `json:"name"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	Mobile   string `json:"mobile"`
	Zipcode  string `json:"zipcode"`
	State    string `json:"state"`
}

type PatchCustomerRequest struct {
	Name     *string `json:"name"`
	Locality *string `json:"locality"`
	City     *string `json:"city"`
	Mobile   *string `json:"mobile"`
	Zipcode  *string `json:"zipcode"`
	State    *string `json:"state"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type PatchCartRequest struct {
	Quantity uint `json:"quantity"`
}

type AddToWishlistRequest struct {
	ProductID uint `json:"product"`
}

type CreateReviewRequest struct {
	ProductID  uint   `json:"product"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type PatchReviewRequest struct {
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"review_text"`
}

type CreateOrderRequest struct {
	CustomerID uint  `json:"customer"`
	ProductID  uint  `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	PaymentID  *uint `json:"payment"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type AssignDeliveryRequest struct {
	DeliveryPersonID uint `json:"delivery_person"`
}

type DeliveryPersonRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CreateIntentResponse struct {
	ClientSecret   string `json:"client_secret"`
	PaymentID      uint   `json:"payment_id"`
	PublishableKey string `json:"publishableKey"`
}

type VerifyPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
