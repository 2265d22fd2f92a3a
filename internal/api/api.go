package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cart-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// RegisterRoutes mounts the cart API. Static segments (empty, checkout) take
// precedence over the id parameters in echo's router.
func RegisterRoutes(e *echo.Echo, h *CartHandler) {
	g := e.Group("/api/cart")
	g.GET("", h.GetCart)
	g.POST("/checkout", h.Checkout)
	g.DELETE("/empty", h.EmptyCart)
	g.POST("/:productId", h.AddToCart)
	g.DELETE("/:cartId", h.RemoveFromCart)
	g.PUT("/:cartId/quantity", h.UpdateQuantity)

	g.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "cart-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
}

// GetCart lists enriched items and the total --> GET /api/cart
func (h *CartHandler) GetCart(c echo.Context) error {
	view, err := h.cartService.GetCart(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// AddToCart adds a product or increments its row --> POST /api/cart/:productId?quantity=n
func (h *CartHandler) AddToCart(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	quantity := 1
	if q := c.QueryParam("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": service.ErrInvalidQuantity.Error()})
		}
	}

	item, err := h.cartService.AddToCart(c.Request().Context(), productID, quantity)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveFromCart deletes one row --> DELETE /api/cart/:cartId
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	cartID, err := strconv.ParseInt(c.Param("cartId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid cart ID"})
	}

	if err := h.cartService.RemoveFromCart(c.Request().Context(), cartID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EmptyCart deletes every row --> DELETE /api/cart/empty
func (h *CartHandler) EmptyCart(c echo.Context) error {
	if err := h.cartService.EmptyCart(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateQuantity replaces a row's quantity --> PUT /api/cart/:cartId/quantity
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	cartID, err := strconv.ParseInt(c.Param("cartId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid cart ID"})
	}

	request := struct {
		Quantity *int `json:"quantity"`
	}{}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if request.Quantity == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": service.ErrInvalidQuantity.Error()})
	}

	item, err := h.cartService.UpdateQuantity(c.Request().Context(), cartID, *request.Quantity)
	if err != nil {
		// A missing row is a bad request here, unlike DELETE.
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Checkout places an order for the whole cart --> POST /api/cart/checkout
func (h *CartHandler) Checkout(c echo.Context) error {
	order, err := h.checkoutService.Checkout(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSONBlob(http.StatusOK, order)
}

func errorJSON(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrOrderCreationFailed),
		errors.Is(err, service.ErrInventoryUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCheckoutInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
