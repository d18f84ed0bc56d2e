package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-truck-api/cache"
	"food-truck-api/config"
	"food-truck-api/events"
	"food-truck-api/handlers"
	"food-truck-api/logger"
	"food-truck-api/middleware"
	"food-truck-api/service"
	"food-truck-api/store"
)

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.DatabaseConfig{Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := logger.Discard()
	st := store.New(db)
	trucks := service.NewTruckService(st, log)
	favorites := service.NewFavoriteService(st, log)
	svc := handlers.Services{
		Auth:      service.NewAuthService(st, log),
		Trucks:    trucks,
		Menus:     service.NewMenuService(st, log),
		Orders:    service.NewOrderService(st, events.NewLogPublisher(log), log),
		Favorites: favorites,
		Reviews:   service.NewReviewService(st, log),
		Dashboard: service.NewDashboardService(trucks, favorites),
	}
	tokens := middleware.NewTokens(config.JWTConfig{Secret: "test", Expiration: time.Hour, Issuer: "test"}, cache.NewMemoryRevoker())

	r := gin.New()
	SetupRoutes(r, handlers.New(svc, tokens, log), Deps{
		Tokens:   tokens,
		Cooldown: cache.NewMemoryCooldown(30 * time.Second),
		Location: time.UTC,
		Log:      log,
	})
	return &api{t: t, router: r}
}

func (a *api) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (a *api) signUp(username, role string) string {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": username + "@example.com", "password": "correct-horse", "username": username, "role": role,
	})
	require.Equal(a.t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func id(body map[string]interface{}, key string) string {
	return body[key].(map[string]interface{})["id"].(string)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)
	driver := a.signUp("driver", "driver")
	customer := a.signUp("eater", "customer")

	code, body := a.do(http.MethodPost, "/api/driver/trucks", driver, gin.H{"name": "Taco Loco", "cuisines": []string{"Mexican"}})
	require.Equal(t, http.StatusCreated, code, body)
	truckID := id(body, "truck")

	code, _ = a.do(http.MethodPut, "/api/driver/trucks/"+truckID+"/availability", driver, gin.H{"available": true})
	require.Equal(t, http.StatusOK, code)

	code, body = a.do(http.MethodPost, "/api/driver/trucks/"+truckID+"/menus", driver, gin.H{"name": "Lunch"})
	require.Equal(t, http.StatusCreated, code, body)
	menuID := id(body, "menu")

	code, body = a.do(http.MethodPost, "/api/driver/menus/"+menuID+"/items", driver, gin.H{"name": "Taco", "price": 3.5})
	require.Equal(t, http.StatusCreated, code, body)
	itemID := id(body, "item")

	code, body = a.do(http.MethodPost, "/api/customer/orders", customer, gin.H{
		"truck_id":       truckID,
		"items":          []gin.H{{"menu_item_id": itemID, "quantity": 2}},
		"customer_name":  "Eater",
		"customer_phone": "555-0101",
	})
	require.Equal(t, http.StatusCreated, code, body)
	orderID := id(body, "order")
	assert.Equal(t, 7.0, body["order"].(map[string]interface{})["total_cost"])

	code, body = a.do(http.MethodPut, "/api/driver/orders/"+orderID+"/ready", driver, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "ready", body["current_status"])
	assert.Equal(t, map[string]interface{}{
		"pending": 0.0, "preparing": 0.0, "ready": 1.0, "completed": 0.0,
	}, body["order_summary"])

	code, body = a.do(http.MethodGet, "/api/driver/orders", driver, nil)
	require.Equal(t, http.StatusOK, code)
	summary := body["order_summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["ready"])
	assert.Equal(t, 0.0, summary["pending"])

	code, _ = a.do(http.MethodPut, "/api/driver/orders/"+orderID+"/ready", driver, nil)
	assert.Equal(t, http.StatusConflict, code, "ready to ready is not a transition")

	code, body = a.do(http.MethodGet, "/api/driver/orders/metrics?tz=UTC", driver, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["metrics"].(map[string]interface{})["total_orders"])

	code, _ = a.do(http.MethodGet, "/api/driver/orders/metrics?tz=Nowhere/Special", driver, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPut, "/api/customer/orders/"+orderID+"/cancel", strings.NewReader(`{"note":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+customer)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed note is rejected")

	code, _ = a.do(http.MethodPut, "/api/customer/orders/"+orderID+"/cancel", customer, gin.H{"note": "late"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodDelete, "/api/driver/menus/"+menuID, driver, nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = a.do(http.MethodGet, "/api/menus/"+menuID+"/items", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"])
}

func TestRolesAndAuth(t *testing.T) {
	a := newAPI(t)
	customer := a.signUp("eater", "customer")

	code, _ := a.do(http.MethodPost, "/api/driver/trucks", customer, gin.H{"name": "X", "cuisines": []string{"Thai"}})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.do(http.MethodGet, "/api/me", customer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "eater", body["user"].(map[string]interface{})["username"])
	assert.NotContains(t, body["user"], "password_hash")

	code, _ = a.do(http.MethodPost, "/api/auth/signout", customer, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, "/api/me", customer, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignUpValidation(t *testing.T) {
	a := newAPI(t)
	code, body := a.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": "a@example.com", "password": "short", "username": "abc", "role": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "password")

	code, _ = a.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "a@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFavoritesOverHTTP(t *testing.T) {
	a := newAPI(t)
	driver := a.signUp("driver", "driver")
	customer := a.signUp("eater", "customer")

	_, body := a.do(http.MethodPost, "/api/driver/trucks", driver, gin.H{"name": "Taco Loco", "cuisines": []string{"Mexican", "Asian"}})
	truckID := id(body, "truck")

	code, body := a.do(http.MethodPost, "/api/customer/favorites/"+truckID, customer, nil)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["created"])

	code, body = a.do(http.MethodPost, "/api/customer/favorites/"+truckID, customer, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["created"])

	code, body = a.do(http.MethodGet, "/api/customer/favorites", customer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])

	code, _ = a.do(http.MethodPost, "/api/customer/favorites/missing", customer, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = a.do(http.MethodGet, "/api/trucks?category=asian", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])
	code, body = a.do(http.MethodGet, "/api/trucks?category=Italian", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"])
}

func TestDashboardRefreshCooldown(t *testing.T) {
	a := newAPI(t)
	customer := a.signUp("eater", "customer")

	code, _ := a.do(http.MethodGet, "/api/customer/dashboard?refresh=true", customer, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body := a.do(http.MethodGet, "/api/customer/dashboard?refresh=true", customer, nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Greater(t, body["retry_after_seconds"], 0.0)

	code, _ = a.do(http.MethodGet, "/api/customer/dashboard", customer, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNearbyRequiresCoordinates(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do(http.MethodGet, "/api/trucks/nearby", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := a.do(http.MethodGet, "/api/trucks/nearby?lat=40.7&lon=-74.0", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"])
}

func TestStateMachineInfo(t *testing.T) {
	a := newAPI(t)
	code, body := a.do(http.MethodGet, "/api/state-machine", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["state_machine"])
	assert.Contains(t, body["legacy_statuses"], "processing")
}
