package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/market"
)

// respondError maps core errors onto HTTP statuses. Anything unrecognized is
// logged and reported as a 500 without leaking the underlying error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, market.ErrProductNotFound),
		errors.Is(err, market.ErrOrderNotFound),
		errors.Is(err, market.ErrCartItemNotFound),
		errors.Is(err, market.ErrUserNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error(), nil))

	case errors.Is(err, market.ErrInvalidQuantity),
		errors.Is(err, market.ErrEmptyCart),
		errors.Is(err, market.ErrUnknownPromoCode):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error(), nil))

	case errors.Is(err, market.ErrInsufficientStock),
		errors.Is(err, market.ErrActiveOrderExists),
		errors.Is(err, market.ErrInvalidTransition),
		errors.Is(err, market.ErrEmailExists):
		c.JSON(http.StatusConflict, global.ErrorResponse(err.Error(), nil))

	case errors.Is(err, market.ErrNotPermitted):
		c.JSON(http.StatusForbidden, global.ErrorResponse(err.Error(), nil))

	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("internal server error", nil))
	}
}

// bindError reports a gin binding failure in the standard envelope.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", []global.ValidationError{
		{Field: "body", Message: err.Error(), Code: "invalid_body"},
	}))
}
