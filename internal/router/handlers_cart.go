package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/models"
)

func GetCartItems(c *gin.Context) {
	items, err := service.CartItems(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func AddCartItem(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := service.AddToCart(c.Request.Context(), currentSession(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(item))
}

func UpdateCartItemQuantity(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sess := currentSession(c)
	if err := service.ChangeQuantity(c.Request.Context(), sess, c.Param("itemId"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	items, err := service.CartItems(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func RemoveCartItem(c *gin.Context) {
	if err := service.RemoveFromCart(c.Request.Context(), currentSession(c), c.Param("itemId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"removed": c.Param("itemId")}))
}
