package api

import (
	"bitwise74/auth-api/internal/service"

	"github.com/gin-gonic/gin"
)

func (a *API) AuthFacebook(c *gin.Context) {
	a.federatedAuth(c, a.Facebook, service.ProviderFacebook)
}
