package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/market"
)

// AgenRequest creates or replaces an agen.
// swagger:model AgenRequest
type AgenRequest struct {
	Name     string `json:"name" example:"Pasar Minggu Hub"`
	Location string `json:"location" example:"-6.2845,106.8446"`
	Open     *bool  `json:"is_open,omitempty"`
}

func listAgensHandler(agens market.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := agens.List(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if list == nil {
			list = []market.Agen{}
		}
		c.JSON(http.StatusOK, gin.H{"agens": list})
	}
}

func createAgenHandler(agens market.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AgenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Location == "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "name and location are required"})
			return
		}
		open := true
		if req.Open != nil {
			open = *req.Open
		}
		a := &market.Agen{ID: uuid.NewString(), Name: req.Name, Location: req.Location, Open: open}
		if err := agens.Create(c.Request.Context(), a); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateAgenHandler(agens market.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AgenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Location == "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "name and location are required"})
			return
		}
		open := true
		if req.Open != nil {
			open = *req.Open
		}
		a := &market.Agen{ID: c.Param("id"), Name: req.Name, Location: req.Location, Open: open}
		if err := agens.Update(c.Request.Context(), a); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "agen updated"})
	}
}

func setAgenOpenHandler(agens market.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Open *bool `json:"is_open"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Open == nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "is_open is required"})
			return
		}
		if err := agens.SetOpen(c.Request.Context(), c.Param("id"), *req.Open); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "agen updated"})
	}
}

func deleteAgenHandler(agens market.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := agens.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, market.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "agen deleted"})
	}
}
