package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"food-truck-api/analytics"
	"food-truck-api/apperrors"
	"food-truck-api/events"
	"food-truck-api/metrics"
	"food-truck-api/models"
	"food-truck-api/statemachine"
	"food-truck-api/store"
)

type CheckoutItem struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"min=1,max=99"`
}

type CheckoutInput struct {
	TruckID       string         `json:"truck_id" validate:"required"`
	Items         []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	Note          string         `json:"note" validate:"max=500"`
	CustomerName  string         `json:"customer_name" validate:"required,max=100"`
	CustomerPhone string         `json:"customer_phone" validate:"required,max=20"`
}

// DriverOrderQuery narrows the driver's order list. Empty fields match
// everything.
type DriverOrderQuery struct {
	TruckID string
	Status  string
	Search  string
	Sort    string
}

// DriverOrders is the driver orders screen: the filtered list and the
// bucket counts over all of the driver's orders.
type DriverOrders struct {
	Orders  []models.Order       `json:"orders"`
	Count   int                  `json:"count"`
	Summary statemachine.Summary `json:"summary"`
}

type OrderService struct {
	store  *store.Store
	events events.Publisher
	log    *logrus.Logger
	now    func() time.Time
}

func NewOrderService(st *store.Store, pub events.Publisher, log *logrus.Logger) *OrderService {
	return &OrderService{store: st, events: pub, log: log, now: time.Now}
}

// Checkout places an order at an available truck. Prices come from the
// stored menu items, never from the request.
func (s *OrderService) Checkout(ctx context.Context, customerID string, in CheckoutInput) (*models.Order, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	truck, err := s.store.GetTruck(ctx, in.TruckID)
	if err != nil {
		return nil, err
	}
	if !truck.Available {
		return nil, apperrors.Conflict("truck " + truck.Name + " is not taking orders right now")
	}

	// merge repeated lines so each menu item appears once
	quantities := make(map[string]int, len(in.Items))
	var ids []string
	for _, it := range in.Items {
		if _, seen := quantities[it.MenuItemID]; !seen {
			ids = append(ids, it.MenuItemID)
		}
		quantities[it.MenuItemID] += it.Quantity
	}

	menuItems, err := s.store.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		mi, ok := byID[id]
		if !ok || mi.TruckID != truck.ID {
			return nil, apperrors.Validation("items", "menu item "+id+" is not on this truck's menu")
		}
		if !mi.Available {
			return nil, apperrors.Validation("items", mi.Name+" is currently unavailable")
		}
		items = append(items, models.OrderItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			Price:      mi.Price,
			Quantity:   quantities[id],
		})
	}

	order := &models.Order{
		CustomerID:    customerID,
		TruckID:       truck.ID,
		Status:        models.StatusPending,
		TotalCost:     analytics.OrderTotal(items),
		Note:          in.Note,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Items:         items,
	}
	if err := s.store.CreateOrder(ctx, order, customerID, "order placed"); err != nil {
		return nil, err
	}

	metrics.RecordOrderCreated()
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"truck_id": truck.ID,
		"total":    order.TotalCost,
	}).Info("order placed")
	s.publish(ctx, events.TopicOrderCreated, events.OrderEvent{
		OrderID:    order.ID,
		TruckID:    order.TruckID,
		CustomerID: customerID,
		To:         models.StatusPending,
		Actor:      statemachine.ActorCustomer,
		TotalCost:  order.TotalCost,
		At:         s.now(),
	})
	return s.store.GetOrder(ctx, order.ID)
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.store.ListOrdersByCustomer(ctx, customerID)
}

// Get returns the order if userID placed it or operates its truck.
func (s *OrderService) Get(ctx context.Context, userID string, role models.UserRole, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch role {
	case models.RoleCustomer:
		if order.CustomerID != userID {
			return nil, apperrors.Forbidden("order does not belong to you")
		}
	case models.RoleDriver:
		if _, err := ownedTruck(ctx, s.store, order.TruckID, userID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.Forbidden("order does not belong to your trucks")
			}
			return nil, err
		}
	default:
		return nil, apperrors.Forbidden("unknown role")
	}
	return order, nil
}

// CancelByCustomer cancels the customer's own active order.
func (s *OrderService) CancelByCustomer(ctx context.Context, customerID, orderID, note string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperrors.Forbidden("order does not belong to you")
	}
	return s.transition(ctx, order, models.StatusCancelled, statemachine.ActorCustomer, customerID, note)
}

// TransitionResult is the order after a driver moves it, with the driver's
// dashboard summary as it stands after the move.
type TransitionResult struct {
	*models.Order
	Summary statemachine.Summary
}

// Transition moves an order at one of the driver's trucks to the target
// status.
func (s *OrderService) Transition(ctx context.Context, driverID, orderID string, to models.OrderStatus, note string) (*TransitionResult, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedTruck(ctx, s.store, order.TruckID, driverID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Forbidden("order does not belong to your trucks")
		}
		return nil, err
	}
	orders, err := s.driverOrders(ctx, driverID)
	if err != nil {
		return nil, err
	}
	summary := statemachine.Summarize(orders)

	from := order.Status
	updated, err := s.transition(ctx, order, to, statemachine.ActorDriver, driverID, note)
	if err != nil {
		return nil, err
	}
	summary.Move(from, updated.Status)
	return &TransitionResult{Order: updated, Summary: summary}, nil
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus, actor, userID, note string) (*models.Order, error) {
	from := order.Status
	if err := statemachine.CanTransition(from, to, actor); err != nil {
		return nil, err
	}

	at := s.now()
	updated, err := s.store.TransitionOrder(ctx, store.OrderTransition{
		OrderID:   order.ID,
		From:      from,
		To:        to,
		ChangedBy: userID,
		Note:      note,
		At:        at,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderTransition(string(from), string(to))
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     from,
		"to":       to,
		"actor":    actor,
	}).Info("order status changed")
	s.publish(ctx, events.TopicOrderStatusChanged, events.OrderEvent{
		OrderID:    order.ID,
		TruckID:    order.TruckID,
		CustomerID: order.CustomerID,
		From:       from,
		To:         to,
		Actor:      actor,
		TotalCost:  order.TotalCost,
		At:         at,
	})
	return updated, nil
}

// DriverOrders lists orders across the driver's trucks.
func (s *OrderService) DriverOrders(ctx context.Context, driverID string, q DriverOrderQuery) (*DriverOrders, error) {
	filter := analytics.OrderFilter{TruckID: q.TruckID, Search: q.Search}
	if q.Status != "" {
		status, err := statemachine.Normalize(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if q.Sort == "" {
		q.Sort = analytics.SortNewest
	}
	if !analytics.ValidSort(q.Sort) {
		return nil, apperrors.Validation("sort", "must be one of newest oldest amount-high amount-low")
	}

	orders, err := s.driverOrders(ctx, driverID)
	if err != nil {
		return nil, err
	}
	filtered := analytics.FilterOrders(orders, filter)
	analytics.SortOrders(filtered, q.Sort)
	return &DriverOrders{
		Orders:  filtered,
		Count:   len(filtered),
		Summary: statemachine.Summarize(orders),
	}, nil
}

// TodayMetrics summarizes today's orders across the driver's trucks, with
// "today" taken in loc.
func (s *OrderService) TodayMetrics(ctx context.Context, driverID string, loc *time.Location) (analytics.DailyMetrics, error) {
	orders, err := s.driverOrders(ctx, driverID)
	if err != nil {
		return analytics.DailyMetrics{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return analytics.TodayMetrics(orders, s.now().In(loc)), nil
}

func (s *OrderService) driverOrders(ctx context.Context, driverID string) ([]models.Order, error) {
	trucks, err := s.store.ListTrucks(ctx, driverID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(trucks))
	for i, t := range trucks {
		ids[i] = t.ID
	}
	return s.store.ListOrdersByTrucks(ctx, ids)
}

// publish is best effort; the order is already committed.
func (s *OrderService) publish(ctx context.Context, topic string, ev events.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, topic, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"topic": topic, "order_id": ev.OrderID}).Warn("failed to publish order event")
	}
}
