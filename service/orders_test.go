package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-truck-api/analytics"
	"food-truck-api/apperrors"
	"food-truck-api/events"
	"food-truck-api/models"
	"food-truck-api/statemachine"
)

type orderFixture struct {
	env      *testEnv
	driver   *models.User
	customer *models.User
	truck    *models.Truck
	items    []models.MenuItem
}

func newOrderFixture(t *testing.T) *orderFixture {
	env := setup(t)
	f := &orderFixture{
		env:      env,
		driver:   env.signUp(t, "driver", models.RoleDriver),
		customer: env.signUp(t, "eater", models.RoleCustomer),
	}
	f.truck = env.openTruck(t, f.driver.ID, "Taco Loco", "Mexican")
	_, f.items = env.menuWithItems(t, f.driver.ID, f.truck.ID, 4.5, 2.0)
	return f
}

func (f *orderFixture) checkout(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.env.orders.Checkout(context.Background(), f.customer.ID, CheckoutInput{
		TruckID: f.truck.ID,
		Items: []CheckoutItem{
			{MenuItemID: f.items[0].ID, Quantity: 2},
			{MenuItemID: f.items[1].ID, Quantity: 1},
		},
		CustomerName:  "Eater",
		CustomerPhone: "555-0101",
	})
	require.NoError(t, err)
	return order
}

func TestCheckout(t *testing.T) {
	f := newOrderFixture(t)
	order := f.checkout(t)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 11.0, order.TotalCost)
	assert.Len(t, order.Items, 2)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, order.StatusHistory[0].ToStatus)
	assert.Equal(t, []string{events.TopicOrderCreated}, f.env.pub.topics)
}

func TestCheckout_MergesRepeatedItems(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.env.orders.Checkout(context.Background(), f.customer.ID, CheckoutInput{
		TruckID: f.truck.ID,
		Items: []CheckoutItem{
			{MenuItemID: f.items[1].ID, Quantity: 1},
			{MenuItemID: f.items[1].ID, Quantity: 2},
		},
		CustomerName:  "Eater",
		CustomerPhone: "555-0101",
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 6.0, order.TotalCost)
}

func TestCheckout_Rejects(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	other := f.env.openTruck(t, f.driver.ID, "Other", "Thai")
	_, otherItems := f.env.menuWithItems(t, f.driver.ID, other.ID, 9)

	base := func() CheckoutInput {
		return CheckoutInput{
			TruckID:       f.truck.ID,
			Items:         []CheckoutItem{{MenuItemID: f.items[0].ID, Quantity: 1}},
			CustomerName:  "Eater",
			CustomerPhone: "555-0101",
		}
	}

	in := base()
	in.CustomerPhone = "  "
	_, err := f.env.orders.Checkout(ctx, f.customer.ID, in)
	assert.True(t, apperrors.IsValidation(err), "phone is required")

	in = base()
	in.Items[0].Quantity = 0
	_, err = f.env.orders.Checkout(ctx, f.customer.ID, in)
	assert.True(t, apperrors.IsValidation(err))

	in = base()
	in.Items = []CheckoutItem{{MenuItemID: otherItems[0].ID, Quantity: 1}}
	_, err = f.env.orders.Checkout(ctx, f.customer.ID, in)
	assert.True(t, apperrors.IsValidation(err), "item from another truck")

	_, err = f.env.trucks.SetAvailability(ctx, f.driver.ID, f.truck.ID, false)
	require.NoError(t, err)
	_, err = f.env.orders.Checkout(ctx, f.customer.ID, base())
	assert.True(t, apperrors.IsConflict(err), "closed truck")
}

func TestDriverMarkReady(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.checkout(t)

	before, err := f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, before.Summary.Pending)

	updated, err := f.env.orders.Transition(ctx, f.driver.ID, order.ID, models.StatusReady, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, updated.Status)
	assert.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, statemachine.Summary{Ready: 1}, updated.Summary)

	after, err := f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, after.Summary.Pending)
	assert.Equal(t, 1, after.Summary.Ready)

	last := f.env.pub.events[len(f.env.pub.events)-1]
	assert.Equal(t, models.StatusPending, last.From)
	assert.Equal(t, models.StatusReady, last.To)
	assert.Equal(t, "driver", last.Actor)
}

func TestTransition_Guards(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.checkout(t)

	_, err := f.env.orders.Transition(ctx, "someone-else", order.ID, models.StatusPreparing, "")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.env.orders.Transition(ctx, f.driver.ID, order.ID, models.StatusCompleted, "")
	assert.True(t, apperrors.IsConflict(err), "pending cannot jump to completed")

	for _, to := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		_, err = f.env.orders.Transition(ctx, f.driver.ID, order.ID, to, "")
		require.NoError(t, err)
	}
	_, err = f.env.orders.Transition(ctx, f.driver.ID, order.ID, models.StatusCancelled, "")
	assert.True(t, apperrors.IsConflict(err), "completed is terminal")
}

func TestCancel(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.checkout(t)

	_, err := f.env.orders.Transition(ctx, f.driver.ID, order.ID, models.StatusPreparing, "")
	require.NoError(t, err)

	stranger := f.env.signUp(t, "stranger", models.RoleCustomer)
	_, err = f.env.orders.CancelByCustomer(ctx, stranger.ID, order.ID, "")
	assert.True(t, apperrors.IsForbidden(err))

	cancelled, err := f.env.orders.CancelByCustomer(ctx, f.customer.ID, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, f.customer.ID, cancelled.CancelledBy)

	res, err := f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{})
	require.NoError(t, err)
	assert.Zero(t, res.Summary.Total())
}

func TestConcurrentTransitionsApplyOnce(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.checkout(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.env.orders.Transition(ctx, f.driver.ID, order.ID, models.StatusReady, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsConflict(err))
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.env.store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.StatusHistory, 2)
}

func TestGetOrder_Access(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.checkout(t)

	_, err := f.env.orders.Get(ctx, f.customer.ID, models.RoleCustomer, order.ID)
	assert.NoError(t, err)
	_, err = f.env.orders.Get(ctx, f.driver.ID, models.RoleDriver, order.ID)
	assert.NoError(t, err)
	_, err = f.env.orders.Get(ctx, "other-driver", models.RoleDriver, order.ID)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestDriverOrders_FilterAndSort(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	first := f.checkout(t)
	second, err := f.env.orders.Checkout(ctx, f.customer.ID, CheckoutInput{
		TruckID:       f.truck.ID,
		Items:         []CheckoutItem{{MenuItemID: f.items[1].ID, Quantity: 1}},
		CustomerName:  "Someone Else",
		CustomerPhone: "555-0102",
	})
	require.NoError(t, err)

	res, err := f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{Sort: analytics.SortAmountLow})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, second.ID, res.Orders[0].ID)
	assert.Equal(t, first.ID, res.Orders[1].ID)

	res, err = f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{Search: "someone"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, second.ID, res.Orders[0].ID)

	res, err = f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count, "legacy status names map onto pending")
	assert.Equal(t, 2, res.Summary.Pending)

	_, err = f.env.orders.DriverOrders(ctx, f.driver.ID, DriverOrderQuery{Sort: "cheapest"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTodayMetrics(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.checkout(t)
	f.checkout(t)

	m, err := f.env.orders.TodayMetrics(ctx, f.driver.ID, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalOrders)
	assert.Equal(t, 22.0, m.TotalRevenue)
	assert.Equal(t, 11.0, m.AverageOrder)

	f.env.orders.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	m, err = f.env.orders.TodayMetrics(ctx, f.driver.ID, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, m.TotalOrders)
	assert.Zero(t, m.AverageOrder)
}
