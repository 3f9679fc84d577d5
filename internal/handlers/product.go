package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/models"
	"github.com/genmesh/meshstore/internal/store"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ProductHandler struct {
	Store   *store.Store
	BaseURL string
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// GetProducts returns the whole catalog ordered by id descending. The
// optional search and sort query parameters are applied in memory. Store
// failures degrade to an empty list.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var items []models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.Order("id DESC").Find(&items).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("product list failed", "error", err)
		return c.JSON(http.StatusOK, []models.Product{})
	}

	items = filterProducts(items, c.QueryParam("search"))
	sortProducts(items, c.QueryParam("sort"))
	if items == nil {
		items = []models.Product{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.First(&product, id).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
		}
		logging.FromContext(c.Request().Context()).Error("product lookup failed", "error", err)
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
	}
	return c.JSON(http.StatusOK, product)
}

// Checkout builds the external payment URL for a product. The hosted payment
// page is trusted to redirect back to the thank-you route carried in the
// return parameter; no callback is received or verified here.
func (h *ProductHandler) Checkout(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.First(&product, id).Error
	}); err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
	}
	if product.PaypalLink == "" {
		return errorResponse(c, http.StatusConflict, fmt.Errorf("product %d has no payment link", id))
	}

	returnURL := fmt.Sprintf("%s/thank-you?productId=%d", h.BaseURL, product.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"url": product.PaypalLink + "&return=" + url.QueryEscape(returnURL),
	})
}

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	PaypalLink  string  `json:"paypal_link"`
	ZipPath     string  `json:"zip_path"`
}

// CreateProduct inserts a product and returns the reloaded catalog, matching
// the admin screen's mutate-then-reload flow.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := validate.Struct(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		PaypalLink:  req.PaypalLink,
		ZipPath:     req.ZipPath,
	}
	if err := h.Store.Write(func(db *gorm.DB) error {
		return db.Create(&prod).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("product create failed", "error", err)
		return errorResponse(c, http.StatusInternalServerError, errors.New("error saving product, please try again"))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"product":  prod,
		"products": h.reload(c),
	})
}

// UpdateProduct overwrites every field of an existing product.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := validate.Struct(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var prod models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.First(&prod, id).Error
	}); err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
	}

	prod.Name = req.Name
	prod.Description = req.Description
	prod.Price = req.Price
	prod.ImageURL = req.ImageURL
	prod.PaypalLink = req.PaypalLink
	prod.ZipPath = req.ZipPath

	if err := h.Store.Write(func(db *gorm.DB) error {
		return db.Save(&prod).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("product update failed", "error", err)
		return errorResponse(c, http.StatusInternalServerError, errors.New("error saving product, please try again"))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product":  prod,
		"products": h.reload(c),
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.Store.Write(func(db *gorm.DB) error {
		return db.Delete(&models.Product{}, id).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("product delete failed", "error", err)
		return errorResponse(c, http.StatusInternalServerError, errors.New("error deleting product, please try again"))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": h.reload(c),
	})
}

func (h *ProductHandler) reload(c echo.Context) []models.Product {
	var items []models.Product
	if err := h.Store.Read(func(db *gorm.DB) error {
		return db.Order("id DESC").Find(&items).Error
	}); err != nil {
		logging.FromContext(c.Request().Context()).Error("product reload failed", "error", err)
		return []models.Product{}
	}
	if items == nil {
		items = []models.Product{}
	}
	return items
}
