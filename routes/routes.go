package routes

import (
	"net/http"
	"time"

	"vacaplan/config"
	"vacaplan/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPlanningRoutes registers the planning endpoints.
func RegisterPlanningRoutes(r *gin.Engine, plan *handlers.PlanHandler) {
	r.POST("/plan", plan.CreatePlan)
	r.GET("/status/:sessionID", plan.GetStatus)
	r.GET("/stream/:sessionID", plan.StreamUpdates)
}

// RegisterBookingRoutes registers the booking gate endpoints.
func RegisterBookingRoutes(r *gin.Engine, booking *handlers.BookingHandler) {
	group := r.Group("/booking")
	{
		group.POST("/otp", booking.RequestOTP)
		group.POST("/confirm", booking.ConfirmBooking)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// CORSMiddleware allows the configured frontend origin.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
