package store

import (
	"context"

	"gorm.io/gorm/clause"

	"food-truck-api/models"
)

// AddFavorite inserts the (user, truck) pair unless it already exists and
// returns the stored row. created is false when the pair was already there.
// The unique index makes concurrent calls converge on a single row.
func (s *Store) AddFavorite(ctx context.Context, userID, truckID string) (fav *models.Favorite, created bool, err error) {
	candidate := models.Favorite{UserID: userID, TruckID: truckID}
	res := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "truck_id"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if res.Error != nil {
		return nil, false, translate("store.AddFavorite", "favorite", truckID, res.Error)
	}

	var stored models.Favorite
	if err := s.conn(ctx).First(&stored, "user_id = ? AND truck_id = ?", userID, truckID).Error; err != nil {
		return nil, false, translate("store.AddFavorite", "favorite", truckID, err)
	}
	return &stored, res.RowsAffected > 0, nil
}

// RemoveFavorite deletes the pair and reports whether a row was removed.
func (s *Store) RemoveFavorite(ctx context.Context, userID, truckID string) (bool, error) {
	res := s.conn(ctx).Where("user_id = ? AND truck_id = ?", userID, truckID).Delete(&models.Favorite{})
	if res.Error != nil {
		return false, translate("store.RemoveFavorite", "favorite", truckID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListFavorites returns the user's favorites with trucks preloaded, newest
// first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.conn(ctx).Preload("Truck").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favs).Error
	if err != nil {
		return nil, translate("store.ListFavorites", "favorite", "", err)
	}
	return favs, nil
}

func (s *Store) IsFavorite(ctx context.Context, userID, truckID string) (bool, error) {
	return s.exists(ctx, "store.IsFavorite", &models.Favorite{}, "user_id = ? AND truck_id = ?", userID, truckID)
}

// CountFavorites returns how many rows exist for the pair. It exists for
// consistency checks; the unique index keeps it at 0 or 1.
func (s *Store) CountFavorites(ctx context.Context, userID, truckID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Favorite{}).Where("user_id = ? AND truck_id = ?", userID, truckID).Count(&n).Error
	return n, translate("store.CountFavorites", "favorite", truckID, err)
}
