package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/models"
	"github.com/genmesh/meshstore/internal/store"
)

type OrderHandler struct {
	Store *store.Store
	Auth  *auth.Service
}

// OrderView is an order row joined with the purchased product, shaped the way
// the dashboard renders it.
type OrderView struct {
	ID          uint      `json:"id"`
	UserEmail   string    `json:"user_email"`
	ProductID   uint      `json:"product_id"`
	Timestamp   time.Time `json:"timestamp"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	ZipPath     string    `json:"zip_path"`
}

// GetMyOrders lists the current user's purchases, newest first. A user with
// no orders gets an empty list, and so does a failing store.
func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	sess := h.Auth.Current()
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	views := []OrderView{}
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.Table("orders").
			Select("orders.id, orders.user_email, orders.product_id, orders.timestamp, " +
				"products.name AS product_name, products.price, products.image_url, products.zip_path").
			Joins("JOIN products ON orders.product_id = products.id").
			Where("orders.user_email = ?", sess.Email).
			Order("orders.timestamp DESC").
			Scan(&views).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("order list failed", "error", err)
		return c.JSON(http.StatusOK, []OrderView{})
	}
	return c.JSON(http.StatusOK, views)
}

type confirmOrderRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	ProductID uint   `json:"product_id" validate:"required"`
}

// ConfirmOrder records a purchase when the payment redirect returns to the
// thank-you route. The external payment itself is never verified; only the
// order row is written.
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	sess := h.Auth.Current()
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req confirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id and product_id are required"})
	}

	var product models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.First(&product, req.ProductID).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("product %d not found", req.ProductID)})
		}
		logging.FromContext(c.Request().Context()).Error("order confirm failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record order"})
	}

	order := models.Order{
		UserEmail: sess.Email,
		ProductID: product.ID,
		Timestamp: time.Now().UTC(),
	}
	if err := h.Store.Write(func(db *gorm.DB) error {
		return db.Create(&order).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("order confirm failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record order"})
	}

	return c.JSON(http.StatusCreated, order)
}
