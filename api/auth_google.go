package api

import (
	"bitwise74/auth-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type providerBody struct {
	Token string `json:"token"`
}

func (a *API) AuthGoogle(c *gin.Context) {
	a.federatedAuth(c, a.Google, service.ProviderGoogle)
}

func (a *API) federatedAuth(c *gin.Context, v service.ProviderVerifier, p service.Provider) {
	requestID := c.MustGet("requestID").(string)

	var data providerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Token field can't be empty",
			"requestID": requestID,
		})
		return
	}

	resp, err := a.Fed.Authenticate(c.Request.Context(), v, p, data.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProviderToken) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     service.ErrInvalidProviderToken.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to authenticate with provider", zap.Error(err),
			zap.String("provider", string(p)), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, resp)
}
