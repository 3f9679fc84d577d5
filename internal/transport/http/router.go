package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/handlers"
	authmw "github.com/genmesh/meshstore/internal/middleware/auth"
	"github.com/genmesh/meshstore/internal/store"
)

type Deps struct {
	Store          *store.Store
	Auth           *auth.Service
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	ChatHandler    *handlers.ChatHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		// The app keeps serving without a store, but readers should know
		// every query will come back empty.
		if d.Store == nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/me", d.AuthHandler.Me)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/checkout", d.ProductHandler.Checkout)

	admin := v1.Group("/admin", authmw.AdminOnly(d.Auth))
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	orders := v1.Group("/orders", authmw.RequireLogin(d.Auth))
	orders.GET("", d.OrderHandler.GetMyOrders)
	orders.POST("/confirm", d.OrderHandler.ConfirmOrder)

	// Chat stays open to anonymous visitors up to the free prompt quota.
	v1.POST("/chat", d.ChatHandler.Send)
	v1.GET("/chat/history", d.ChatHandler.Chats)
	v1.GET("/chat/history/:id", d.ChatHandler.History)
}
