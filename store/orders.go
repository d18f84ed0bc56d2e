package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"food-truck-api/apperrors"
	"food-truck-api/models"
	"food-truck-api/statemachine"
)

// CreateOrder inserts the order, its items and the initial history row in
// one transaction.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, changedBy, note string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: changedBy,
			Note:      note,
		}).Error
	})
	return translate("store.CreateOrder", "order", order.ID, err)
}

// GetOrder loads an order with its items and status history.
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate("store.GetOrder", "order", id, err)
	}
	normalizeOrder(&order)
	return &order, nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.conn(ctx).Preload("Items").Preload("Truck").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, translate("store.ListOrdersByCustomer", "order", "", err)
	}
	normalizeOrders(orders)
	return orders, nil
}

// ListOrdersByTrucks returns orders placed at any of the trucks, newest
// first.
func (s *Store) ListOrdersByTrucks(ctx context.Context, truckIDs []string) ([]models.Order, error) {
	var orders []models.Order
	if len(truckIDs) == 0 {
		return orders, nil
	}
	err := s.conn(ctx).Preload("Items").
		Where("truck_id IN ?", truckIDs).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, translate("store.ListOrdersByTrucks", "order", "", err)
	}
	normalizeOrders(orders)
	return orders, nil
}

// OrderTransition describes one status change.
type OrderTransition struct {
	OrderID   string
	From      models.OrderStatus
	To        models.OrderStatus
	ChangedBy string
	Note      string
	At        time.Time
}

// TransitionOrder applies a status change only if the stored status still
// equals From. A concurrent change makes it fail with a conflict instead of
// overwriting.
func (s *Store) TransitionOrder(ctx context.Context, t OrderTransition) (*models.Order, error) {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     t.To,
			"updated_at": t.At,
		}
		if t.To == models.StatusCancelled {
			updates["cancelled_at"] = t.At
			updates["cancelled_by"] = t.ChangedBy
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", t.OrderID, statemachine.Aliases(t.From)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("order " + t.OrderID + " is no longer " + string(t.From))
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID:    t.OrderID,
			FromStatus: t.From,
			ToStatus:   t.To,
			ChangedBy:  t.ChangedBy,
			Note:       t.Note,
			CreatedAt:  t.At,
		}).Error
	})
	if err != nil {
		return nil, translate("store.TransitionOrder", "order", t.OrderID, err)
	}
	return s.GetOrder(ctx, t.OrderID)
}

// NormalizeLegacyStatuses rewrites stored statuses from older clients onto
// the canonical enum and returns how many rows changed.
func (s *Store) NormalizeLegacyStatuses(ctx context.Context) (int64, error) {
	var total int64
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusCancelled} {
		legacy := statemachine.Aliases(status)[1:]
		if len(legacy) == 0 {
			continue
		}
		res := s.conn(ctx).Model(&models.Order{}).Where("status IN ?", legacy).Update("status", status)
		if res.Error != nil {
			return total, translate("store.NormalizeLegacyStatuses", "order", "", res.Error)
		}
		total += res.RowsAffected
	}
	return total, nil
}

func normalizeOrders(orders []models.Order) {
	for i := range orders {
		normalizeOrder(&orders[i])
	}
}

func normalizeOrder(o *models.Order) {
	if status, err := statemachine.Normalize(string(o.Status)); err == nil {
		o.Status = status
	}
}
