package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/logging"
)

var validate = validator.New()

type AuthHandler struct {
	Auth *auth.Service
}

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email and a password of at least 6 characters are required"})
	}

	sess, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrDuplicateUser) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("register failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed, please try again"})
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	sess, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed, please try again"})
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(); err != nil {
		logging.FromContext(c.Request().Context()).Warn("logout marker cleanup failed", "error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me reports the current session, for the UI to decide what to render.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := h.Auth.Current()
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":     sess,
		"is_admin": h.Auth.IsAdmin(),
	})
}
