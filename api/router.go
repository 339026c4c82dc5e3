// Package api contains all endpoints available
package api

import (
	"bitwise74/auth-api/db"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/pkg/middleware"
	"fmt"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

const cleanupInterval = time.Minute * 5

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Tokens   *service.TokenService
	OTP      *service.OTPService
	Login    *service.LoginService
	Fed      *service.FederatedService
	Google   service.ProviderVerifier
	Facebook service.ProviderVerifier
}

func NewRouter() (*API, error) {
	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	tokens, err := service.NewTokenService(database)
	if err != nil {
		return nil, err
	}

	a := &API{
		DB:       database,
		Tokens:   tokens,
		OTP:      service.NewOTPService(database, service.NewSMTPMailer()),
		Login:    service.NewLoginService(database, tokens),
		Fed:      service.NewFederatedService(database, tokens),
		Google:   service.NewGoogleVerifier(),
		Facebook: service.NewFacebookVerifier(),
	}

	a.setupRoutes()

	service.AccountCleanup(cleanupInterval, database)

	return a, nil
}

func (a *API) setupRoutes() {
	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	jwt := middleware.NewJWTMiddleware(a.DB, a.Tokens)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT access token
		main.HEAD("/validate", jwt, a.Validate)
	}

	auth := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new user and mails an OTP code
		auth.POST("/register", a.AuthRegister)

		// POST /api/auth/verify	-> Verifies an OTP code and logs the user in
		auth.POST("/verify", a.AuthVerify)

		// POST /api/auth/resend	-> Mails a fresh OTP code
		auth.POST("/resend", a.AuthResend)

		// POST /api/auth/login		-> Logs in a user and returns a token pair
		auth.POST("/login", a.AuthLogin)

		// POST /api/auth/refresh	-> Rotates a refresh token into a new pair
		auth.POST("/refresh", a.AuthRefresh)

		// POST /api/auth/logout	-> Revokes the caller's refresh token
		auth.POST("/logout", jwt, a.AuthLogout)

		// POST /api/auth/google	-> Logs in with a Google ID token
		auth.POST("/google", a.AuthGoogle)

		// POST /api/auth/facebook	-> Logs in with a Facebook access token
		auth.POST("/facebook", a.AuthFacebook)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the current user's summary
		users.GET("", jwt, a.UserFetch)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
