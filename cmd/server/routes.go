package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"realestate.backend/internal/interfaces/http/handlers"
	"realestate.backend/internal/interfaces/http/middleware"
	"realestate.backend/pkg/metrics"
)

const (
	serviceName    = "realestate-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	profileHandler *handlers.ProfileHandler
	groupHandler   *handlers.GroupHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware   gin.HandlerFunc
	onboardingAccess gin.HandlerFunc
	platformAccess   gin.HandlerFunc
	ipRateLimit    gin.HandlerFunc
	authRateLimit  gin.HandlerFunc
	permission     func(codename string) gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SessionHeader, middleware.IdempotencyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	if d.ipRateLimit != nil {
		v1.Use(d.ipRateLimit)
	}
	authLimit := d.authRateLimit
	if authLimit == nil {
		authLimit = func(c *gin.Context) { c.Next() }
	}
	onboarding := d.onboardingAccess
	if onboarding == nil {
		onboarding = func(c *gin.Context) { c.Next() }
	}
	permission := d.permission
	if permission == nil {
		permission = func(string) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } }
	}

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authLimit, middleware.IdempotencyMiddleware(), d.authHandler.Register)
		auth.POST("/login", authLimit, d.authHandler.Login)
		auth.POST("/verify-email", d.authHandler.VerifyEmail)
		auth.POST("/resend-verification", authLimit, d.authHandler.ResendVerification)
		auth.POST("/refresh-token", d.authHandler.RefreshToken)
		auth.POST("/logout", d.authHandler.Logout)
		auth.POST("/password-reset/request", authLimit, d.authHandler.RequestPasswordReset)
		auth.POST("/password-reset/confirm", authLimit, d.authHandler.ConfirmPasswordReset)
	}

	// Onboarding routes: full tokens, or the scoped token handed out by a refused login
	authed := v1.Group("")
	authed.Use(d.authMiddleware, onboarding)
	{
		authed.GET("/account-status", d.profileHandler.AccountStatus)
		authed.GET("/profile", d.profileHandler.GetProfile)
		authed.PATCH("/profile", d.profileHandler.UpdateProfile)
		authed.POST("/profile/submit-review", d.profileHandler.SubmitForReview)
	}

	gated := authed.Group("")
	gated.Use(d.platformAccess)
	{
		gated.GET("/groups", d.groupHandler.ListGroups)
	}

	admin := gated.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/approve", permission("approve_customuser"), middleware.IdempotencyMiddleware(), d.adminHandler.Approve)
		admin.POST("/change-user-type", permission("change_usertype"), d.adminHandler.ChangeUserType)
		admin.GET("/users", d.adminHandler.ListUsers)
		admin.GET("/users/:id/history", d.adminHandler.UserHistory)
		admin.GET("/groups/stats", d.adminHandler.GroupStats)
		admin.GET("/groups/:role/members", d.adminHandler.GroupMembers)
	}
}
