package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/ai"
	"github.com/threadline/marketplace-api/pkg/global"
)

// GenerateSellerSalesReport returns the seller's aggregated sales figures,
// with AI commentary when the AI service is configured.
func GenerateSellerSalesReport(c *gin.Context) {
	sess := currentSession(c)

	seller, err := service.Account(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	if !seller.IsSeller {
		c.JSON(http.StatusForbidden, global.ErrorResponse("seller account required", nil))
		return
	}

	report, err := ai.GenerateSellerSalesReport(c.Request.Context(), store, sess.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}
