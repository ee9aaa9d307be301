package http

import (
	"github.com/gdugdh24/spark-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/spark-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler       *handler.AuthHandler
	onboardingHandler *handler.OnboardingHandler
	profileHandler    *handler.ProfileHandler
	discoverHandler   *handler.DiscoverHandler
	navigationHandler *handler.NavigationHandler
	authMiddleware    *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	onboardingHandler *handler.OnboardingHandler,
	profileHandler *handler.ProfileHandler,
	discoverHandler *handler.DiscoverHandler,
	navigationHandler *handler.NavigationHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:       authHandler,
		onboardingHandler: onboardingHandler,
		profileHandler:    profileHandler,
		discoverHandler:   discoverHandler,
		navigationHandler: navigationHandler,
		authMiddleware:    authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()
	r.register(router)
	return router
}

func (r *Router) register(router *gin.Engine) {
	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/external", r.authHandler.External)
			auth.GET("/state", r.authHandler.State)
			auth.DELETE("/state/error", r.authHandler.ClearError)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		v1.GET("/navigation", r.navigationHandler.Resolve)

		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			onboarding := protected.Group("/onboarding")
			{
				onboarding.GET("", r.onboardingHandler.GetState)
				onboarding.PATCH("", r.onboardingHandler.UpdateDraft)
				onboarding.PUT("/step", r.onboardingHandler.SetStep)
				onboarding.GET("/steps/:step/valid", r.onboardingHandler.StepValid)
				onboarding.POST("/photos", r.onboardingHandler.AddPhoto)
				onboarding.DELETE("/photos/:index", r.onboardingHandler.RemovePhoto)
				onboarding.POST("/photos/reorder", r.onboardingHandler.ReorderPhotos)
				onboarding.POST("/hobbies/toggle", r.onboardingHandler.ToggleHobby)
				onboarding.PUT("/hobbies", r.onboardingHandler.SetHobbies)
				onboarding.PATCH("/preferences", r.onboardingHandler.UpdatePreferences)
				onboarding.POST("/preferences/age", r.onboardingHandler.AdjustAge)
				onboarding.POST("/complete", r.onboardingHandler.Complete)
				onboarding.POST("/reset", r.onboardingHandler.Reset)
				onboarding.GET("/options", r.onboardingHandler.Options)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
				profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
			}

			discover := protected.Group("/discover")
			{
				discover.GET("/feed", r.discoverHandler.Feed)
				discover.POST("/swipe", r.discoverHandler.Swipe)
				discover.POST("/rewind", r.discoverHandler.Rewind)
				discover.POST("/gesture", r.discoverHandler.Gesture)
				discover.GET("/matches", r.discoverHandler.Matches)
			}
		}
	}
}
