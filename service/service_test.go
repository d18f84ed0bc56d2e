package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"food-truck-api/config"
	"food-truck-api/events"
	"food-truck-api/logger"
	"food-truck-api/models"
	"food-truck-api/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	if ev, ok := event.(events.OrderEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) Stop() {}

type testEnv struct {
	db        *gorm.DB
	store     *store.Store
	pub       *recordingPublisher
	auth      *AuthService
	trucks    *TruckService
	menus     *MenuService
	orders    *OrderService
	favorites *FavoriteService
	reviews   *ReviewService
	dashboard *DashboardService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)
	log := logger.Discard()
	pub := &recordingPublisher{}
	env := &testEnv{
		db:        db,
		store:     st,
		pub:       pub,
		auth:      NewAuthService(st, log),
		trucks:    NewTruckService(st, log),
		menus:     NewMenuService(st, log),
		orders:    NewOrderService(st, pub, log),
		favorites: NewFavoriteService(st, log),
		reviews:   NewReviewService(st, log),
	}
	env.dashboard = NewDashboardService(env.trucks, env.favorites)
	return env
}

func (e *testEnv) signUp(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	user, err := e.auth.SignUp(context.Background(), SignUpInput{
		Email:    username + "@example.com",
		Password: "correct-horse",
		Username: username,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) openTruck(t *testing.T, driverID, name string, cuisines ...string) *models.Truck {
	t.Helper()
	ctx := context.Background()
	truck, err := e.trucks.Create(ctx, driverID, TruckInput{Name: name, Cuisines: cuisines})
	require.NoError(t, err)
	truck, err = e.trucks.SetAvailability(ctx, driverID, truck.ID, true)
	require.NoError(t, err)
	return truck
}

func (e *testEnv) menuWithItems(t *testing.T, driverID, truckID string, prices ...float64) (*models.Menu, []models.MenuItem) {
	t.Helper()
	ctx := context.Background()
	menu, err := e.menus.CreateMenu(ctx, driverID, truckID, MenuInput{Name: "Lunch"})
	require.NoError(t, err)
	var items []models.MenuItem
	for i, p := range prices {
		item, err := e.menus.AddItem(ctx, driverID, menu.ID, MenuItemInput{Name: string(rune('A' + i)), Price: p})
		require.NoError(t, err)
		items = append(items, *item)
	}
	return menu, items
}
