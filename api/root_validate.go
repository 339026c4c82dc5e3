package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate returns 200 if the presented access token passed the JWT
// middleware
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
