package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-truck-api/middleware"
	"food-truck-api/service"
)

type NoteRequest struct {
	Note string `json:"note"`
}

// GetDashboard returns all trucks plus the caller's favorites
func (h *Handler) GetDashboard(c *gin.Context) {
	dash, err := h.dashboard.Load(c.Request.Context(), middleware.GetUserID(c), truckFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// PlaceOrder creates a new order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.CheckoutInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Checkout(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.orders.ListForCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns one order with its items and status history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder lets a customer cancel an order that is not finished yet
func (h *Handler) CancelOrder(c *gin.Context) {
	var req NoteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	order, err := h.orders.CancelByCustomer(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}

func (h *Handler) ListFavorites(c *gin.Context) {
	favs, err := h.favorites.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(favs), "favorites": favs})
}

// AddFavorite is idempotent: repeating it returns the existing favorite.
func (h *Handler) AddFavorite(c *gin.Context) {
	fav, created, err := h.favorites.Add(c.Request.Context(), middleware.GetUserID(c), c.Param("truckId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"favorite": fav, "created": created})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	removed, err := h.favorites.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("truckId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) CreateReview(c *gin.Context) {
	var req service.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}
