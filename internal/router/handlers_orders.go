package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/models"
)

func ListBuyerOrders(c *gin.Context) {
	orders, err := service.BuyerOrders(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func GetOrder(c *gin.Context) {
	order, err := service.GetOrder(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func CancelOrder(c *gin.Context) {
	order, err := service.CancelOrder(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func ListSellerOrders(c *gin.Context) {
	orders, err := service.SellerOrders(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func UpdateSellerOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := service.AdvanceOrderStatus(c.Request.Context(), currentSession(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
