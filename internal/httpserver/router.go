package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmw "github.com/weldmart/storefront/pkg/middleware/auth"
)

type Deps struct {
	Auth       *AuthHTTP
	Cart       *CartHTTP
	Catalog    *CatalogHTTP
	Categories *CategoryHTTP
	Payment    *PaymentHTTP
	Contact    *ContactHTTP

	AuthMW *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/verify-email", d.Auth.VerifyEmail)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/forgot-password", d.Auth.ForgotPassword)
	auth.POST("/reset-password", d.Auth.ResetPassword)

	categories := api.Group("/categories")
	categories.GET("", d.Categories.GetCategories)
	categories.GET("/slug/:slug", d.Categories.GetCategoryBySlug)
	categories.GET("/:id", d.Categories.GetCategory)
	categories.POST("", d.Categories.CreateCategory, d.AuthMW.RequireAdmin)
	categories.PATCH("/:id", d.Categories.PatchCategory, d.AuthMW.RequireAdmin)
	categories.DELETE("/:id", d.Categories.DeleteCategory, d.AuthMW.RequireAdmin)

	products := api.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/slug/:slug", d.Catalog.GetProductBySlug)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, d.AuthMW.RequireAdmin)
	products.PATCH("/:id", d.Catalog.PatchProduct, d.AuthMW.RequireAdmin)
	products.DELETE("/:id", d.Catalog.DeleteProduct, d.AuthMW.RequireAdmin)

	cart := api.Group("/cart", d.AuthMW.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/add", d.Cart.AddToCart)
	cart.PUT("/items/:itemId", d.Cart.UpdateItemQuantity)
	cart.DELETE("/items/:itemId", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.ClearCart)

	payment := api.Group("/payment")
	payment.GET("/key", d.Payment.GetKey)
	payment.POST("/create-order", d.Payment.CreateOrder, d.AuthMW.RequireAuth)
	payment.POST("/verify", d.Payment.VerifyPayment, d.AuthMW.RequireAuth)
	payment.GET("/orders", d.Payment.GetOrders, d.AuthMW.RequireAuth)

	api.POST("/contact", d.Contact.Submit)
}
