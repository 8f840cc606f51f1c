package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/models"
)

func RegisterAccount(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(user))
}

func GetAccount(c *gin.Context) {
	user, err := service.Account(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(user))
}
