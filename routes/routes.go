package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"adventure-backend/controllers"
	"adventure-backend/middleware"
	"adventure-backend/models"
	"adventure-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Adventure    *controllers.AdventureController
	Booking      *controllers.BookingController
	GuideRequest *controllers.GuideRequestController
	Backoffice   *controllers.BackofficeController
	Upload       *controllers.UploadController
}

func SetupRouter(ctrl Controllers, users *services.UserService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authorized := middleware.Authorized(users)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/otp", ctrl.Auth.RequestOTP)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.Refresh)
		}

		api.GET("/profile", authorized, ctrl.Profile.GetMe)
		api.PATCH("/profile", authorized, ctrl.Profile.UpdateMe)
		api.GET("/profiles/:username", ctrl.Profile.GetByUsername)

		adventures := api.Group("/adventures")
		{
			adventures.GET("", ctrl.Adventure.GetAdventures)
			adventures.GET("/:id", ctrl.Adventure.GetAdventure)
			adventures.GET("/:id/guides/available", ctrl.Adventure.AvailableGuides)

			adventures.POST("", authorized, adminOnly, ctrl.Adventure.CreateAdventure)
			adventures.PUT("/:id", authorized, adminOnly, ctrl.Adventure.UpdateAdventure)
			adventures.DELETE("/:id", authorized, adminOnly, ctrl.Adventure.DeleteAdventure)

			adventures.POST("/:id/guides", authorized, middleware.RequireRole(models.RoleGuide), ctrl.Adventure.EnrollSelf)
			adventures.DELETE("/:id/guides", authorized, middleware.RequireRole(models.RoleGuide), ctrl.Adventure.UnenrollSelf)

			adventures.POST("/:id/packages", authorized, adminOnly, ctrl.Adventure.CreatePackage)
			adventures.PUT("/:id/packages/:packageId", authorized, adminOnly, ctrl.Adventure.UpdatePackage)
			adventures.DELETE("/:id/packages/:packageId", authorized, adminOnly, ctrl.Adventure.DeletePackage)
		}

		bookings := api.Group("/bookings", authorized)
		{
			bookings.GET("", ctrl.Booking.GetMyBookings)
			bookings.POST("", ctrl.Booking.CreateBooking)
			bookings.GET("/:id", ctrl.Booking.GetBooking)
			bookings.POST("/:id/payment", ctrl.Booking.InitiatePayment)
			bookings.POST("/:id/payment/verify", ctrl.Booking.VerifyPayment)
		}

		guideRequests := api.Group("/guide-requests")
		{
			guideRequests.POST("", middleware.OptionalAuthorized(users), ctrl.GuideRequest.Create)
			guideRequests.GET("", authorized, adminOnly, ctrl.GuideRequest.ListPending)
			guideRequests.POST("/:id/approve", authorized, adminOnly, ctrl.GuideRequest.Approve)
			guideRequests.POST("/:id/reject", authorized, adminOnly, ctrl.GuideRequest.Reject)
		}

		backoffice := api.Group("/backoffice", authorized, adminOnly)
		{
			backoffice.GET("/interactions", ctrl.Backoffice.GetInteractions)
			backoffice.GET("/guides", ctrl.Backoffice.GetGuides)
		}

		api.POST("/uploads/images", authorized, adminOnly, ctrl.Upload.UploadImage)
	}

	return r
}
