package routes

import (
	"barberbook/handlers"
	"barberbook/middleware"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterCatalogRoutes registers the catalog and active category endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	catalog := r.Group("/api/catalog/:shopID")
	catalog.Use(middleware.DeviceMiddleware())
	{
		catalog.GET("/services", hb.GetServices)
		catalog.GET("/active-category", hb.GetActiveCategory)
		catalog.PUT("/active-category", hb.SetActiveCategory)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	bookingGroup.Use(middleware.DeviceMiddleware())
	{
		bookingGroup.POST("/session", hb.InitiateSession)
		bookingGroup.GET("/bookings/:bookingID", hb.GetBooking)

		session := bookingGroup.Group("/session/:sessionID")
		session.GET("", hb.GetSession)
		session.DELETE("", hb.CancelSession)
		session.POST("/services", hb.SelectService)
		session.DELETE("/services/:serviceID", hb.DeselectService)
		session.PUT("/datetime", hb.SetDate)
		session.PUT("/barber", hb.SetBarber)
		session.PUT("/details", hb.SetCustomerDetails)
		session.POST("/next", hb.Next)
		session.POST("/back", hb.Back)
		session.POST("/upsell/resolve", hb.ResolveUpsell)
		session.POST("/upsell/dismiss", hb.DismissUpsell)
		session.POST("/confirm", hb.ConfirmBooking)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
