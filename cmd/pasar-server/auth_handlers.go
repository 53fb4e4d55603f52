package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/httpx"
)

// RegisterRequest is the signup payload.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username    string `json:"username" example:"budi"`
	Fullname    string `json:"fullname" example:"Budi Santoso"`
	Email       string `json:"email" example:"budi@example.com"`
	Password    string `json:"password"`
	Pin         string `json:"pin" example:"123456"`
	Role        string `json:"role" example:"consumer"`
	PhoneNumber string `json:"phone_number" example:"+62811111111"`
	AgenID      string `json:"agen_id,omitempty"`
	Location    string `json:"location,omitempty" example:"-6.2001,106.8166"`
}

// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "signup payload"
// @Success 201 {object} account.User
// @Failure 400 {object} httpx.HTTPError
// @Router /auth/register [post]
func registerHandler(users account.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		if req.Username == "" || req.Fullname == "" || req.Email == "" ||
			req.Password == "" || req.Pin == "" || req.PhoneNumber == "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "please fill all fields"})
			return
		}
		role := account.Role(req.Role)
		if !account.ValidRole(role) {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid role"})
			return
		}
		if role.NeedsAgen() == (req.AgenID == "") {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "agen_id is required for merchant and driver roles only"})
			return
		}

		passHash, err := account.HashPassword(req.Password)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		pinHash, err := account.HashPin(req.Pin)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		u := &account.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Fullname:     req.Fullname,
			Email:        req.Email,
			PhoneNumber:  req.PhoneNumber,
			Location:     req.Location,
			Role:         role,
			Balance:      decimal.Zero,
			PasswordHash: passHash,
			PinHash:      pinHash,
		}
		if req.AgenID != "" {
			u.AgenID = &req.AgenID
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// LoginRequest is the credentials payload.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Log in and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} httpx.HTTPError
// @Router /auth/login [post]
func loginHandler(users account.Repository, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "email and password are required"})
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !account.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, httpx.HTTPError{Error: "invalid credentials"})
			return
		}
		token, err := auth.IssueToken(secret, ttl, auth.Identity{UserID: u.ID, Role: u.Role})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

func meHandler(users account.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c)
		u, err := users.GetByID(c.Request.Context(), id.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func listAgentsHandler(users account.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := users.ListByRole(c.Request.Context(), account.RoleAgen)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if agents == nil {
			agents = []account.User{}
		}
		c.JSON(http.StatusOK, gin.H{"agents": agents})
	}
}
