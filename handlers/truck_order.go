package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-truck-api/middleware"
	"food-truck-api/models"
	"food-truck-api/service"
)

// GetTruckOrders returns orders across the driver's trucks with a status
// summary
func (h *Handler) GetTruckOrders(c *gin.Context) {
	res, err := h.orders.DriverOrders(c.Request.Context(), middleware.GetUserID(c), service.DriverOrderQuery{
		TruckID: c.Query("truck_id"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": res.Summary,
		"count":         res.Count,
		"orders":        res.Orders,
	})
}

// GetTodayMetrics returns today's order count, revenue and average. The tz
// query parameter picks the calendar day's timezone.
func (h *Handler) GetTodayMetrics(loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		zone := loc
		if tz := c.Query("tz"); tz != "" {
			l, err := time.LoadLocation(tz)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone: " + tz})
				return
			}
			zone = l
		}
		m, err := h.orders.TodayMetrics(c.Request.Context(), middleware.GetUserID(c), zone)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"metrics": m})
	}
}

func (h *Handler) StartPreparing(c *gin.Context) {
	h.transition(c, models.StatusPreparing)
}

func (h *Handler) MarkReady(c *gin.Context) {
	h.transition(c, models.StatusReady)
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	h.transition(c, models.StatusCompleted)
}

func (h *Handler) DriverCancelOrder(c *gin.Context) {
	h.transition(c, models.StatusCancelled)
}

func (h *Handler) transition(c *gin.Context, to models.OrderStatus) {
	var req NoteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.orders.Transition(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), to, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Order status updated",
		"order_id":       res.ID,
		"current_status": res.Status,
		"order":          res.Order,
		"order_summary":  res.Summary,
	})
}
