package store

import (
	"context"

	"gorm.io/gorm"

	"food-truck-api/models"
)

func (s *Store) CreateTruck(ctx context.Context, truck *models.Truck) error {
	err := s.conn(ctx).Create(truck).Error
	return translate("store.CreateTruck", "truck", truck.Name, err)
}

func (s *Store) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	var truck models.Truck
	if err := s.conn(ctx).First(&truck, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetTruck", "truck", id, err)
	}
	return &truck, nil
}

// ListTrucks returns every truck, or only the driver's trucks when driverID
// is set.
func (s *Store) ListTrucks(ctx context.Context, driverID string) ([]models.Truck, error) {
	q := s.conn(ctx).Order("created_at desc")
	if driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	var trucks []models.Truck
	if err := q.Find(&trucks).Error; err != nil {
		return nil, translate("store.ListTrucks", "truck", "", err)
	}
	return trucks, nil
}

// ListTrucksInCells returns trucks whose geohash starts with any of cells.
func (s *Store) ListTrucksInCells(ctx context.Context, cells []string) ([]models.Truck, error) {
	var trucks []models.Truck
	if len(cells) == 0 {
		return trucks, nil
	}
	cond := s.db.Where("geohash LIKE ?", cells[0]+"%")
	for _, c := range cells[1:] {
		cond = cond.Or("geohash LIKE ?", c+"%")
	}
	if err := s.conn(ctx).Where(cond).Find(&trucks).Error; err != nil {
		return nil, translate("store.ListTrucksInCells", "truck", "", err)
	}
	return trucks, nil
}

// UpdateTruck applies column updates and returns the fresh truck.
func (s *Store) UpdateTruck(ctx context.Context, id string, updates map[string]interface{}) (*models.Truck, error) {
	res := s.conn(ctx).Model(&models.Truck{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate("store.UpdateTruck", "truck", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetTruck(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.GetTruck(ctx, id)
}

// SetTruckCuisines replaces the cuisine list. It goes through the struct so
// the json serializer applies.
func (s *Store) SetTruckCuisines(ctx context.Context, id string, cuisines []string) error {
	err := s.conn(ctx).Model(&models.Truck{ID: id}).Select("cuisines").Updates(&models.Truck{Cuisines: cuisines}).Error
	return translate("store.SetTruckCuisines", "truck", id, err)
}

// DeleteTruck removes the truck together with its menus, menu items and
// favorites in one transaction. Orders and reviews are kept as history.
func (s *Store) DeleteTruck(ctx context.Context, id string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("truck_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("truck_id = ?", id).Delete(&models.Menu{}).Error; err != nil {
			return err
		}
		if err := tx.Where("truck_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Truck{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("store.DeleteTruck", "truck", id, err)
}
