package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-truck-api/cache"
	"food-truck-api/handlers"
	"food-truck-api/middleware"
	"food-truck-api/models"
)

// Deps are the pieces the route table needs besides the handlers.
type Deps struct {
	Tokens   *middleware.Tokens
	Cooldown cache.Cooldown
	Location *time.Location
	Log      *logrus.Logger
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, d Deps) {
	authRequired := middleware.AuthRequired(d.Tokens)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/signup", h.SignUp)
		public.POST("/auth/signin", h.SignIn)

		// Trucks, menus & reviews (no auth needed)
		public.GET("/trucks", h.ListTrucks)
		public.GET("/trucks/nearby", h.NearbyTrucks)
		public.GET("/trucks/:id", h.GetTruck)
		public.GET("/trucks/:id/menus", h.GetTruckMenus)
		public.GET("/trucks/:id/reviews", h.GetTruckReviews)
		public.GET("/menus/:id/items", h.GetMenuItems)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/me", h.GetProfile)
		auth.PUT("/me", h.UpdateProfile)
		auth.POST("/auth/signout", h.SignOut)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(authRequired, middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/dashboard", middleware.RefreshThrottle(d.Cooldown, "dashboard", d.Log), h.GetDashboard)

		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", middleware.RefreshThrottle(d.Cooldown, "customer-orders", d.Log), h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", h.CancelOrder)

		customer.GET("/favorites", h.ListFavorites)
		customer.POST("/favorites/:truckId", h.AddFavorite)
		customer.DELETE("/favorites/:truckId", h.RemoveFavorite)

		customer.POST("/trucks/:id/reviews", h.CreateReview)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(authRequired, middleware.RoleRequired(models.RoleDriver))
	{
		// Truck management
		driver.POST("/trucks", h.CreateTruck)
		driver.GET("/trucks", h.GetMyTrucks)
		driver.PUT("/trucks/:id", h.UpdateTruck)
		driver.DELETE("/trucks/:id", h.DeleteTruck)
		driver.PUT("/trucks/:id/availability", h.SetAvailability)
		driver.PUT("/trucks/:id/location", h.UpdateLocation)

		// Menu management
		driver.POST("/trucks/:id/menus", h.CreateMenu)
		driver.PUT("/menus/:id", h.UpdateMenu)
		driver.DELETE("/menus/:id", h.DeleteMenu)
		driver.POST("/menus/:id/items", h.AddMenuItem)
		driver.PUT("/items/:id", h.UpdateMenuItem)
		driver.DELETE("/items/:id", h.DeleteMenuItem)

		// Order management
		driver.GET("/orders", middleware.RefreshThrottle(d.Cooldown, "driver-orders", d.Log), h.GetTruckOrders)
		driver.GET("/orders/metrics", h.GetTodayMetrics(d.Location))
		driver.GET("/orders/:id", h.GetOrderDetail)
		driver.PUT("/orders/:id/preparing", h.StartPreparing)
		driver.PUT("/orders/:id/ready", h.MarkReady)
		driver.PUT("/orders/:id/complete", h.CompleteOrder)
		driver.PUT("/orders/:id/cancel", h.DriverCancelOrder)
	}
}
