package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-truck-api/analytics"
	"food-truck-api/statemachine"
)

func truckFilter(c *gin.Context) analytics.TruckFilter {
	return analytics.TruckFilter{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		AvailableOnly: c.Query("available") == "true",
	}
}

// ListTrucks returns all trucks with ratings (public)
func (h *Handler) ListTrucks(c *gin.Context) {
	trucks, err := h.trucks.List(c.Request.Context(), truckFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(trucks), "trucks": trucks})
}

// NearbyTrucks returns trucks around lat/lon, nearest first
func (h *Handler) NearbyTrucks(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}
	radius := 0.0
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a number"})
			return
		}
		radius = r
	}

	trucks, err := h.trucks.Nearby(c.Request.Context(), lat, lon, radius, truckFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(trucks), "trucks": trucks})
}

func (h *Handler) GetTruck(c *gin.Context) {
	truck, err := h.trucks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"truck": truck})
}

// GetTruckMenus returns the truck's menus with their items (public)
func (h *Handler) GetTruckMenus(c *gin.Context) {
	menus, err := h.menus.ListMenus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(menus), "menus": menus})
}

func (h *Handler) GetTruckReviews(c *gin.Context) {
	reviews, err := h.reviews.ListForTruck(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	avg, n := analytics.AverageRating(reviews)
	c.JSON(http.StatusOK, gin.H{"rating": avg, "count": n, "reviews": reviews})
}

func (h *Handler) GetMenuItems(c *gin.Context) {
	items, err := h.menus.ListItemsByMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": statemachine.TerminalStates(),
		"legacy_statuses": statemachine.LegacyMapping(),
		"description":     "Food Truck Order Lifecycle State Machine",
	})
}
