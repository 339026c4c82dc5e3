package api

import (
	"bitwise74/auth-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// AuthVerify consumes an OTP code and, on success, logs the user in
// right away so they don't have to enter their password again
func (a *API) AuthVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Email == "" || data.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and OTP fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	user, err := a.OTP.Verify(data.Email, data.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     service.ErrUserNotFound.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrInvalidOTP):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     service.ErrInvalidOTP.Error(),
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify OTP", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	resp, err := a.Tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Email verified successfully",
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
		"email":        resp.Email,
		"name":         resp.Name,
	})
}
