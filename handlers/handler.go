package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-truck-api/apperrors"
	"food-truck-api/middleware"
	"food-truck-api/service"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	auth      *service.AuthService
	trucks    *service.TruckService
	menus     *service.MenuService
	orders    *service.OrderService
	favorites *service.FavoriteService
	reviews   *service.ReviewService
	dashboard *service.DashboardService
	tokens    *middleware.Tokens
	log       *logrus.Logger
}

type Services struct {
	Auth      *service.AuthService
	Trucks    *service.TruckService
	Menus     *service.MenuService
	Orders    *service.OrderService
	Favorites *service.FavoriteService
	Reviews   *service.ReviewService
	Dashboard *service.DashboardService
}

func New(svc Services, tokens *middleware.Tokens, log *logrus.Logger) *Handler {
	return &Handler{
		auth:      svc.Auth,
		trucks:    svc.Trucks,
		menus:     svc.Menus,
		orders:    svc.Orders,
		favorites: svc.Favorites,
		reviews:   svc.Reviews,
		dashboard: svc.Dashboard,
		tokens:    tokens,
		log:       log,
	}
}

// respondError writes err with the status code of its kind. Unexpected
// errors are logged and hidden from the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		if apperrors.IsTransient(err) {
			c.JSON(status, gin.H{"error": "Service temporarily unavailable, please retry"})
			return
		}
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body; field rules are checked by the services.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
