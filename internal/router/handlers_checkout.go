package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

type checkoutRequest struct {
	PromoCode string `json:"promoCode"`
}

func PreviewCheckout(c *gin.Context) {
	totals, err := service.PreviewTotals(c.Request.Context(), currentSession(c), c.Query("promoCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(totals))
}

func CheckoutCart(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	result, err := service.CheckoutCart(c.Request.Context(), currentSession(c), req.PromoCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(result))
}

func PlaceDirectOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := service.PlaceDirectOrder(c.Request.Context(), currentSession(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

// ValidatePromoCode resolves a code so the cart screen can show the
// discount before checkout.
func ValidatePromoCode(c *gin.Context) {
	var req models.ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	promo, err := market.ApplyPromo(req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(promo))
}
