package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genmesh/meshstore/internal/models"
)

func TestGetProductsSeededCatalog(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store, BaseURL: "http://localhost:8080"}

	c, rec := env.request(t, http.MethodGet, "/api/v1/products", nil)
	require.NoError(t, h.GetProducts(c))
	requireStatus(t, rec, http.StatusOK)

	items := decodeBody[[]models.Product](t, rec)
	require.Len(t, items, 6)
	// Newest first.
	assert.Equal(t, uint(6), items[0].ID)
	assert.Equal(t, "Weapon Arsenal", items[0].Name)
	assert.Equal(t, uint(1), items[5].ID)
}

func TestGetProductsSearchAndSort(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	c, rec := env.request(t, http.MethodGet, "/api/v1/products?search=robot", nil)
	require.NoError(t, h.GetProducts(c))
	items := decodeBody[[]models.Product](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Futuristic Robot Model", items[0].Name)

	c, rec = env.request(t, http.MethodGet, "/api/v1/products?sort=price_low", nil)
	require.NoError(t, h.GetProducts(c))
	items = decodeBody[[]models.Product](t, rec)
	require.Len(t, items, 6)
	assert.Equal(t, 24.99, items[0].Price)
	assert.Equal(t, 49.99, items[5].Price)

	c, rec = env.request(t, http.MethodGet, "/api/v1/products?search=no-such-thing", nil)
	require.NoError(t, h.GetProducts(c))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	c, rec := env.request(t, http.MethodGet, "/api/v1/products/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.GetProduct(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	payload := map[string]any{
		"name":        "Drone Swarm Kit",
		"description": "A pack of animated delivery drones.",
		"price":       19.99,
		"image_url":   "https://example.com/drone.jpg",
		"paypal_link": "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE7",
		"zip_path":    "assets/products/drones.zip",
	}
	c, rec := env.request(t, http.MethodPost, "/api/v1/admin/products", payload)
	require.NoError(t, h.CreateProduct(c))
	requireStatus(t, rec, http.StatusCreated)

	body := decodeBody[struct {
		Product  models.Product   `json:"product"`
		Products []models.Product `json:"products"`
	}](t, rec)
	assert.Equal(t, uint(7), body.Product.ID)
	assert.Len(t, body.Products, 7)
	assert.Equal(t, "Drone Swarm Kit", body.Products[0].Name)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	c, rec := env.request(t, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name":  "Broken",
		"price": -1.0,
	})
	require.NoError(t, h.CreateProduct(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateProductOverwritesAllFields(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	payload := map[string]any{
		"name":        "Weapon Arsenal Deluxe",
		"description": "Now with plasma cutlery.",
		"price":       27.99,
		"image_url":   "https://example.com/arsenal.jpg",
		"paypal_link": "https://www.paypal.com/cgi-bin/webscr?cmd=_s-xclick&hosted_button_id=SAMPLE6",
		"zip_path":    "assets/products/weapons-deluxe.zip",
	}
	c, rec := env.request(t, http.MethodPut, "/api/v1/admin/products/6", payload)
	c.SetParamNames("id")
	c.SetParamValues("6")
	require.NoError(t, h.UpdateProduct(c))
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody[struct {
		Product models.Product `json:"product"`
	}](t, rec)
	assert.Equal(t, "Weapon Arsenal Deluxe", body.Product.Name)
	assert.Equal(t, 27.99, body.Product.Price)
	assert.Equal(t, "assets/products/weapons-deluxe.zip", body.Product.ZipPath)
}

func TestDeleteProductRemovesExactlyOneRow(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store}

	c, rec := env.request(t, http.MethodDelete, "/api/v1/admin/products/3", nil)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.DeleteProduct(c))
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody[struct {
		Products []models.Product `json:"products"`
	}](t, rec)
	require.Len(t, body.Products, 5)
	for _, p := range body.Products {
		assert.NotEqual(t, uint(3), p.ID)
	}

	// The deleted id stays gone on subsequent lists.
	c, rec = env.request(t, http.MethodGet, "/api/v1/products", nil)
	require.NoError(t, h.GetProducts(c))
	items := decodeBody[[]models.Product](t, rec)
	require.Len(t, items, 5)
	for _, p := range items {
		assert.NotEqual(t, uint(3), p.ID)
	}
}

func TestCheckoutBuildsReturnURL(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Store: env.store, BaseURL: "http://localhost:8080"}

	c, rec := env.request(t, http.MethodGet, "/api/v1/products/1/checkout", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Checkout(c))
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["url"], "hosted_button_id=SAMPLE1")
	assert.Contains(t, body["url"], "&return=")
	assert.Contains(t, body["url"], strconv.Itoa(1))
}
