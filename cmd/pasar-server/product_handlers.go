package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/catalog"
	"github.com/pasarkita/pasar-backend/internal/httpx"
)

// CreateProductRequest is the seller's product payload.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name" example:"Beras Premium 5kg"`
	Description string `json:"description"`
	Price       string `json:"price" example:"78000.00"`
	Stock       int    `json:"stock" example:"25"`
	CategoryID  string `json:"category_id"`
	ImageURL    string `json:"image_url"`
	Active      *bool  `json:"active,omitempty"`
}

// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param body body CreateProductRequest true "product"
// @Success 201 {object} catalog.Product
// @Failure 400 {object} httpx.HTTPError
// @Router /products [post]
func createProductHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || !price.IsPositive() || req.Name == "" || req.CategoryID == "" || req.Stock < 0 {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid or missing required fields"})
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p := &catalog.Product{
			ID:          uuid.NewString(),
			SellerID:    id.UserID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			Active:      active,
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "search"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} catalog.ListResponse
// @Router /products [get]
func listProductsHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		q := catalog.Query{
			Q:          c.Query("q"),
			CategoryID: c.Query("category_id"),
			SellerID:   c.Query("seller_id"),
			Limit:      limit,
			Offset:     offset,
		}
		items, err := products.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Q: q.Q, Limit: limit, Offset: offset, Items: items})
	}
}

func getProductHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProductHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		updatePrice := req.Price != ""
		var price decimal.Decimal
		if updatePrice {
			var err error
			price, err = decimal.NewFromString(req.Price)
			if err != nil || !price.IsPositive() {
				c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid price"})
				return
			}
		}
		if req.Stock < 0 {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "stock must be non-negative"})
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p := &catalog.Product{
			ID:          c.Param("id"),
			SellerID:    id.UserID,
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			Active:      active,
		}
		if err := products.Update(c.Request.Context(), p, updatePrice); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

func deleteProductHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		ok, err := products.Delete(c.Request.Context(), c.Param("id"), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, catalog.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

func listCategoriesHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := products.ListCategories(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if cats == nil {
			cats = []catalog.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

func createCategoryHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			ImageURL string `json:"image_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "name is required"})
			return
		}
		cat := &catalog.Category{ID: uuid.NewString(), Name: req.Name, ImageURL: req.ImageURL}
		if err := products.CreateCategory(c.Request.Context(), cat); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}
