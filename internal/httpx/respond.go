package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/catalog"
	"github.com/pasarkita/pasar-backend/internal/geo"
	"github.com/pasarkita/pasar-backend/internal/market"
	"github.com/pasarkita/pasar-backend/internal/promo"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

// HTTPError is the JSON error body.
// swagger:model
type HTTPError struct {
	Error string `json:"error"`
}

// Error maps a domain error onto an HTTP status and writes the JSON body.
// Validation mistakes come back as 400, absent entities as 404, conflicts
// with current state as 409. Storage integrity violations are kept apart
// from validation so clients can tell client error from data error.
func Error(c *gin.Context, err error) {
	c.JSON(statusFor(err), HTTPError{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, trade.ErrMissingFields),
		errors.Is(err, trade.ErrInvalidQuantity),
		errors.Is(err, trade.ErrInvalidAmount),
		errors.Is(err, trade.ErrInvalidDriver),
		errors.Is(err, geo.ErrInvalidLocation),
		errors.Is(err, promo.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, trade.ErrNotFound),
		errors.Is(err, trade.ErrItemNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, promo.ErrNotFound),
		errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrInvalidPin),
		errors.Is(err, trade.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, account.ErrInsufficientBalance),
		errors.Is(err, trade.ErrDriverAssigned),
		errors.Is(err, trade.ErrInvalidTransition),
		errors.Is(err, account.ErrAlreadyExist):
		return http.StatusConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		log.Printf("[http] integrity violation: %s %s", pgErr.Code, pgErr.Message)
		return http.StatusInternalServerError
	}

	log.Printf("[http] unhandled error: %v", err)
	return http.StatusInternalServerError
}
