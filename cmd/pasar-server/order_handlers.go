package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

type CheckoutRequest struct {
	Description string `json:"description"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" example:"processed"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id,omitempty"`
}

type LocationRequest struct {
	Location string `json:"location" example:"-6.2001,106.8166"`
}

type SettleRequest struct {
	Pin string `json:"pin"`
}

func listOrdersHandler(trades trade.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		var (
			orders []trade.Transaction
			err    error
		)
		if id.Role == account.RoleAdmin {
			orders, err = trades.ListAll(c.Request.Context(), limit, offset)
		} else {
			orders, err = trades.ListByUser(c.Request.Context(), id.UserID, limit, offset)
		}
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if orders == nil {
			orders = []trade.Transaction{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "limit": limit, "offset": offset})
	}
}

func getOrderHandler(trades trade.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		tx, items, err := trades.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if id.Role != account.RoleAdmin &&
			tx.BuyerID != id.UserID && tx.SellerID != id.UserID &&
			(tx.DriverID == nil || *tx.DriverID != id.UserID) {
			httpx.Error(c, trade.ErrNotOwner)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx, "items": items})
	}
}

// @Summary Confirm a draft cart as an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param body body CheckoutRequest false "description"
// @Success 200 {object} trade.Transaction
// @Failure 409 {object} httpx.HTTPError
// @Router /orders/{id}/checkout [post]
func checkoutHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req CheckoutRequest
		_ = c.ShouldBindJSON(&req)
		tx, err := orders.Checkout(c.Request.Context(), id.UserID, c.Param("id"), req.Description)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// @Summary Advance an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param body body UpdateStatusRequest true "target status"
// @Success 200 {object} trade.Transaction
// @Failure 409 {object} httpx.HTTPError
// @Router /orders/{id}/status [put]
func updateStatusHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		to, ok := trade.ParseStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "unknown status"})
			return
		}
		tx, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), to)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// @Summary Claim an order for delivery
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param body body AssignDriverRequest false "driver"
// @Success 200 {object} trade.Transaction
// @Failure 409 {object} httpx.HTTPError
// @Router /orders/{id}/driver [post]
func assignDriverHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req AssignDriverRequest
		_ = c.ShouldBindJSON(&req)
		driverID := id.UserID
		if id.Role == account.RoleAdmin && req.DriverID != "" {
			driverID = req.DriverID
		}
		tx, err := orders.AssignDriver(c.Request.Context(), c.Param("id"), driverID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// @Summary Broadcast the driver's current location
// @Tags orders
// @Accept json
// @Produce json
// @Param body body LocationRequest true "location"
// @Success 200 {object} map[string]int64
// @Router /drivers/location [put]
func driverLocationHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		updated, err := orders.UpdateDriverLocation(c.Request.Context(), id.UserID, req.Location)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

// @Summary Set the buyer's delivery point and price the shipping
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param body body LocationRequest true "location"
// @Success 200 {object} trade.Transaction
// @Failure 400 {object} httpx.HTTPError
// @Router /orders/{id}/delivery-location [put]
func deliveryLocationHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		tx, err := orders.SetDeliveryLocation(c.Request.Context(), id.UserID, c.Param("id"), req.Location)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// @Summary Settle a delivered order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param body body SettleRequest true "account pin"
// @Success 200 {object} trade.SettlementResult
// @Failure 403 {object} httpx.HTTPError
// @Failure 409 {object} httpx.HTTPError
// @Router /orders/{id}/settle [post]
func settleHandler(settler trade.Settler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req SettleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		res, err := settler.Settle(c.Request.Context(), id.UserID, c.Param("id"), req.Pin)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func reviewHandler(orders trade.OrderManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		if err := orders.MarkReviewed(c.Request.Context(), id.UserID, c.Param("id")); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order reviewed"})
	}
}
