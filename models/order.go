package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents all canonical states of a food truck order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string               `json:"id" gorm:"primaryKey;size:36"`
	CustomerID    string               `json:"customer_id" gorm:"index;not null"`
	TruckID       string               `json:"truck_id" gorm:"index;not null"`
	Truck         *Truck               `json:"truck,omitempty" gorm:"foreignKey:TruckID"`
	Status        OrderStatus          `json:"status" gorm:"index;not null;default:'pending'"`
	TotalCost     float64              `json:"total_cost"`
	Note          string               `json:"note"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	CancelledBy   string               `json:"cancelled_by,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OrderItem snapshots the menu item name and price at checkout.
type OrderItem struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string  `json:"order_id" gorm:"index;not null"`
	MenuItemID string  `json:"menu_item_id" gorm:"not null"`
	Name       string  `json:"name"`
	Price      float64 `json:"price" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string      `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) error {
	assignID(&h.ID)
	return nil
}
