package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/idempotency"
	"github.com/Skotchmaster/dairy_shop/internal/metrics"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Customers *CustomerHTTP
	Carts     *CartHTTP
	Wishlists *WishlistHTTP
	Reviews   *ReviewHTTP
	Orders    *OrderHTTP
	Payments  *PaymentHTTP
	Health    *HealthHTTP

	AuthMW      *auth.Middleware
	Idempotency idempotency.Guard
	Metrics     *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api/v1")
	private := api.Group("", d.AuthMW.RequireAuth)
	admin := api.Group("", d.AuthMW.RequireAdmin)
	once := idempotency.Middleware(d.Idempotency)

	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)
	api.POST("/logout", d.Auth.LogOut)
	api.POST("/auth/refresh", d.Auth.Refresh)
	private.GET("/home", d.Auth.Home)

	api.GET("/products", d.Catalog.GetProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)
	api.GET("/search", d.Catalog.SearchProducts)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PATCH("/products/:id", d.Catalog.PatchProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)

	api.GET("/stocks", d.Catalog.GetStocks)
	api.GET("/stocks/:product_id", d.Catalog.GetStock)
	admin.PUT("/stocks/:product_id", d.Catalog.SetStock)
	admin.POST("/stocks/:product_id/restock", d.Catalog.Restock)

	private.GET("/customers", d.Customers.GetCustomers)
	private.POST("/customers", d.Customers.CreateCustomer)
	private.GET("/customers/:id", d.Customers.GetCustomer)
	private.PATCH("/customers/:id", d.Customers.PatchCustomer)
	private.DELETE("/customers/:id", d.Customers.DeleteCustomer)

	private.GET("/carts", d.Carts.GetCart)
	private.POST("/carts", d.Carts.AddToCart)
	private.GET("/carts/:id", d.Carts.GetCartItem)
	private.PATCH("/carts/:id", d.Carts.PatchCartItem)
	private.DELETE("/carts/:id", d.Carts.DeleteCartItem)

	private.GET("/wishlists", d.Wishlists.GetWishlist)
	private.POST("/wishlists", d.Wishlists.AddToWishlist)
	private.GET("/wishlists/:id", d.Wishlists.GetWishlistItem)
	private.DELETE("/wishlists/:id", d.Wishlists.DeleteWishlistItem)

	api.GET("/reviews", d.Reviews.GetReviews)
	private.POST("/reviews", d.Reviews.CreateReview)
	private.GET("/reviews/:id", d.Reviews.GetReview)
	private.PATCH("/reviews/:id", d.Reviews.PatchReview)
	private.DELETE("/reviews/:id", d.Reviews.DeleteReview)

	private.GET("/orders", d.Orders.GetOrders)
	private.POST("/orders", d.Orders.CreateOrder, once)
	private.GET("/orders/:id", d.Orders.GetOrder)
	private.DELETE("/orders/:id", d.Orders.DeleteOrder)
	private.POST("/orders/:id/cancel", d.Orders.CancelOrder)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	admin.PATCH("/orders/:id/delivery", d.Orders.AssignDelivery)
	admin.GET("/delivery-persons", d.Orders.GetDeliveryPersons)
	admin.POST("/delivery-persons", d.Orders.CreateDeliveryPerson)

	private.GET("/payments", d.Payments.GetPayments)
	private.POST("/payments/create-intent", d.Payments.CreateIntent, once)
	private.POST("/payments/verify", d.Payments.Verify)
	private.GET("/payments/:id", d.Payments.GetPayment)
	private.DELETE("/payments/:id", d.Payments.DeletePayment)
}
