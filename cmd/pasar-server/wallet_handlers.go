package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

// WalletRequest moves money into or out of the caller's balance. The PIN
// guards both directions.
// swagger:model WalletRequest
type WalletRequest struct {
	Amount string `json:"amount" example:"50000.00"`
	Pin    string `json:"pin"`
}

// @Summary Top up the caller's balance
// @Tags wallet
// @Accept json
// @Produce json
// @Param body body WalletRequest true "amount and pin"
// @Success 200 {object} trade.Transaction
// @Failure 403 {object} httpx.HTTPError
// @Router /wallet/topup [post]
func topUpHandler(wallets trade.WalletManager) gin.HandlerFunc {
	return walletHandler(func(c *gin.Context, userID string, amount decimal.Decimal, pin string) (*trade.Transaction, error) {
		return wallets.TopUp(c.Request.Context(), userID, amount, pin)
	})
}

// @Summary Withdraw from the caller's balance
// @Tags wallet
// @Accept json
// @Produce json
// @Param body body WalletRequest true "amount and pin"
// @Success 200 {object} trade.Transaction
// @Failure 409 {object} httpx.HTTPError
// @Router /wallet/withdraw [post]
func withdrawHandler(wallets trade.WalletManager) gin.HandlerFunc {
	return walletHandler(func(c *gin.Context, userID string, amount decimal.Decimal, pin string) (*trade.Transaction, error) {
		return wallets.Withdraw(c.Request.Context(), userID, amount, pin)
	})
}

func walletHandler(move func(*gin.Context, string, decimal.Decimal, string) (*trade.Transaction, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req WalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid amount"})
			return
		}
		tx, err := move(c, id.UserID, amount, req.Pin)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}
