package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

// AddToCartRequest adds qty units of a product to the buyer's draft with
// that product's seller.
// swagger:model AddToCartRequest
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity" example:"2"`
}

// UpdateQuantityRequest sets the absolute quantity of a cart item.
// swagger:model UpdateQuantityRequest
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

// @Summary List the caller's draft carts
// @Tags cart
// @Produce json
// @Success 200 {object} map[string][]trade.Transaction
// @Router /cart [get]
func listCartHandler(trades trade.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		drafts, err := trades.ListDraftsByBuyer(c.Request.Context(), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if drafts == nil {
			drafts = []trade.Transaction{}
		}
		c.JSON(http.StatusOK, gin.H{"carts": drafts})
	}
}

// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param body body AddToCartRequest true "item"
// @Success 200 {object} trade.CartSnapshot
// @Failure 409 {object} httpx.HTTPError
// @Router /cart/items [post]
func addToCartHandler(carts trade.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		snap, err := carts.AddToCart(c.Request.Context(), id.UserID, req.ProductID, req.Quantity)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary Change a cart item's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "item id"
// @Param body body UpdateQuantityRequest true "quantity"
// @Success 200 {object} trade.CartSnapshot
// @Router /cart/items/{id} [put]
func updateQuantityHandler(carts trade.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		snap, err := carts.UpdateQuantity(c.Request.Context(), id.UserID, c.Param("id"), req.Quantity)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary Remove a product from the cart
// @Tags cart
// @Produce json
// @Param productID path string true "product id"
// @Success 200 {object} map[string]string
// @Router /cart/items/{productID} [delete]
func removeFromCartHandler(carts trade.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		if err := carts.RemoveFromCart(c.Request.Context(), id.UserID, c.Param("productID")); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item removed"})
	}
}

// @Summary Draft carts addressed to the caller's store
// @Tags cart
// @Produce json
// @Success 200 {object} map[string][]trade.Transaction
// @Router /cart/incoming [get]
func incomingCartsHandler(trades trade.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		drafts, err := trades.ListDraftsBySeller(c.Request.Context(), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if drafts == nil {
			drafts = []trade.Transaction{}
		}
		c.JSON(http.StatusOK, gin.H{"carts": drafts})
	}
}
