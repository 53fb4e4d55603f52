package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/promo"
)

// PromotionRequest creates or replaces a promotion. Dates are RFC 3339 and
// an empty product_id makes the promotion storewide.
// swagger:model PromotionRequest
type PromotionRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	Scheme      string `json:"scheme" example:"discount"`
	Description string `json:"description"`
	Percentage  string `json:"scheme_percentage" example:"10"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

func (r *PromotionRequest) toPromotion(id, ownerID string) (*promo.Promotion, string) {
	scheme := promo.Scheme(r.Scheme)
	if !promo.ValidScheme(scheme) {
		return nil, "unknown scheme"
	}
	pct, err := decimal.NewFromString(r.Percentage)
	if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, "scheme_percentage must be between 0 and 100"
	}
	p := &promo.Promotion{
		ID:          id,
		OwnerID:     ownerID,
		Scheme:      scheme,
		Description: r.Description,
		Percentage:  pct,
	}
	if r.ProductID != "" {
		p.ProductID = &r.ProductID
	}
	if r.StartDate != "" {
		t, err := time.Parse(time.RFC3339, r.StartDate)
		if err != nil {
			return nil, "invalid start_date"
		}
		p.StartDate = &t
	}
	if r.EndDate != "" {
		t, err := time.Parse(time.RFC3339, r.EndDate)
		if err != nil {
			return nil, "invalid end_date"
		}
		p.EndDate = &t
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return nil, "end_date precedes start_date"
	}
	return p, ""
}

func listPromotionsHandler(promos promo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		list, err := promos.ListByOwner(c.Request.Context(), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if list == nil {
			list = []promo.Promotion{}
		}
		c.JSON(http.StatusOK, gin.H{"promotions": list})
	}
}

// @Summary Create a promotion
// @Tags promotions
// @Accept json
// @Produce json
// @Param body body PromotionRequest true "promotion"
// @Success 201 {object} promo.Promotion
// @Failure 400 {object} httpx.HTTPError
// @Router /promotions [post]
func createPromotionHandler(promos promo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req PromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		p, msg := req.toPromotion(uuid.NewString(), id.UserID)
		if msg != "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: msg})
			return
		}
		if err := promos.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updatePromotionHandler(promos promo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req PromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		p, msg := req.toPromotion(c.Param("id"), id.UserID)
		if msg != "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: msg})
			return
		}
		if err := promos.Update(c.Request.Context(), p); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "promotion updated"})
	}
}

func deletePromotionHandler(promos promo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		ok, err := promos.Delete(c.Request.Context(), c.Param("id"), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, promo.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "promotion deleted"})
	}
}
