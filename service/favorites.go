package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"food-truck-api/models"
	"food-truck-api/store"
)

type FavoriteService struct {
	store *store.Store
	log   *logrus.Logger
}

func NewFavoriteService(st *store.Store, log *logrus.Logger) *FavoriteService {
	return &FavoriteService{store: st, log: log}
}

// Add favorites the truck. Repeating the call returns the existing favorite
// with created set to false.
func (s *FavoriteService) Add(ctx context.Context, userID, truckID string) (*models.Favorite, bool, error) {
	if _, err := s.store.GetTruck(ctx, truckID); err != nil {
		return nil, false, err
	}
	fav, created, err := s.store.AddFavorite(ctx, userID, truckID)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.WithFields(logrus.Fields{"user_id": userID, "truck_id": truckID}).Debug("favorite added")
	}
	return fav, created, nil
}

// Remove reports whether a favorite was removed. Removing a truck that was
// not a favorite is not an error.
func (s *FavoriteService) Remove(ctx context.Context, userID, truckID string) (bool, error) {
	return s.store.RemoveFavorite(ctx, userID, truckID)
}

// List returns the user's favorites, skipping any whose truck is gone.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	favs, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := favs[:0]
	for _, f := range favs {
		if f.Truck == nil || f.Truck.ID == "" {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, truckID string) (bool, error) {
	return s.store.IsFavorite(ctx, userID, truckID)
}
