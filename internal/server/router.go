package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/config"
	"github.com/mroshb/red_social/internal/handlers"
	"github.com/mroshb/red_social/internal/middleware"
	"github.com/mroshb/red_social/internal/repositories"
	"github.com/mroshb/red_social/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// NewHandlerManager wires repositories and services over db.
func NewHandlerManager(cfg *config.Config, db *gorm.DB) *handlers.HandlerManager {
	userRepo := repositories.NewUserRepository(db)
	friendRepo := repositories.NewFriendRepository(db)

	return handlers.NewHandlerManager(
		cfg,
		userRepo,
		services.NewFriendshipService(friendRepo),
		services.NewProfileService(userRepo, friendRepo),
	)
}

// NewRouter builds the HTTP API
func NewRouter(cfg *config.Config, h *handlers.HandlerManager, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	if !cfg.IsProduction() {
		api.POST("/auth/token", h.HandleIssueToken)
	}

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		auth.GET("/users/:id", h.HandleGetProfile)

		friends := auth.Group("/friends")
		friends.GET("", h.HandleListFriends)
		friends.POST("/requests", middleware.RateLimit(limiter), h.HandleSendFriendRequest)
		friends.GET("/requests/pending", h.HandleListPendingRequests)
		friends.POST("/requests/:id/accept", h.HandleAcceptFriendRequest)
		friends.POST("/requests/:id/reject", h.HandleRejectFriendRequest)

		auth.GET("/notifications/friend-requests", h.HandleListFriendRequestNotifications)
	}

	return r
}
