package models

import (
	"time"

	"gorm.io/gorm"
)

type Truck struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	DriverID      string    `json:"driver_id" gorm:"index;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Cuisines      []string  `json:"cuisines" gorm:"serializer:json"`
	Description   string    `json:"description"`
	LicenseNumber string    `json:"license_number"`
	Available     bool      `json:"available" gorm:"default:false"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Geohash       string    `json:"-" gorm:"index;size:12"`
	Menus         []Menu    `json:"menus,omitempty" gorm:"foreignKey:TruckID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (t *Truck) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// Menu groups menu items under a truck.
type Menu struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	TruckID   string     `json:"truck_id" gorm:"index;not null"`
	Name      string     `json:"name" gorm:"not null"`
	ImageURL  string     `json:"image_url"`
	Items     []MenuItem `json:"items,omitempty" gorm:"foreignKey:MenuID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

type MenuItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	MenuID      string    `json:"menu_id" gorm:"index;not null"`
	TruckID     string    `json:"truck_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	ImageURL    string    `json:"image_url"`
	Available   bool      `json:"available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	TruckID   string    `json:"truck_id" gorm:"index;not null"`
	UserID    string    `json:"user_id" gorm:"index"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// MenuDeletion statuses
const (
	DeletionPending = "pending"
	DeletionDone    = "done"
)

// MenuDeletion records the intent to remove a menu and its items so an
// interrupted delete can be finished later.
type MenuDeletion struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	MenuID    string    `json:"menu_id" gorm:"uniqueIndex;not null"`
	TruckID   string    `json:"truck_id"`
	Status    string    `json:"status" gorm:"index;not null;default:'pending'"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *MenuDeletion) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
