package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-truck-api/middleware"
	"food-truck-api/service"
)

type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// CreateTruck registers a truck for the calling driver
func (h *Handler) CreateTruck(c *gin.Context) {
	var req service.TruckInput
	if !bindJSON(c, &req) {
		return
	}
	truck, err := h.trucks.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Truck created", "truck": truck})
}

// GetMyTrucks returns the trucks the caller operates
func (h *Handler) GetMyTrucks(c *gin.Context) {
	trucks, err := h.trucks.ListByDriver(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(trucks), "trucks": trucks})
}

func (h *Handler) UpdateTruck(c *gin.Context) {
	var req service.TruckUpdate
	if !bindJSON(c, &req) {
		return
	}
	truck, err := h.trucks.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck updated", "truck": truck})
}

func (h *Handler) DeleteTruck(c *gin.Context) {
	if err := h.trucks.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck deleted"})
}

// SetAvailability opens or closes the truck for orders
func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	truck, err := h.trucks.SetAvailability(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), *req.Available)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"truck": truck})
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	truck, err := h.trucks.UpdateLocation(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), *req.Latitude, *req.Longitude)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"truck": truck})
}

func (h *Handler) CreateMenu(c *gin.Context) {
	var req service.MenuInput
	if !bindJSON(c, &req) {
		return
	}
	menu, err := h.menus.CreateMenu(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"menu": menu})
}

func (h *Handler) UpdateMenu(c *gin.Context) {
	var req service.MenuInput
	if !bindJSON(c, &req) {
		return
	}
	menu, err := h.menus.UpdateMenu(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

// DeleteMenu removes the menu and every item on it
func (h *Handler) DeleteMenu(c *gin.Context) {
	if err := h.menus.DeleteMenu(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted"})
}

// AddMenuItem adds a dish to one of the caller's menus
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.menus.AddItem(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req service.MenuItemUpdate
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.menus.UpdateItem(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.menus.DeleteItem(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
