package models

import (
	"time"

	"gorm.io/gorm"
)

// Favorite is a saved customer-to-truck bookmark. The (user, truck) pair is
// unique.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	TruckID   string    `json:"truck_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	Truck     *Truck    `json:"truck,omitempty" gorm:"foreignKey:TruckID"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
