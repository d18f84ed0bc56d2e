package service

import (
	"context"

	"food-truck-api/analytics"
	"food-truck-api/models"
)

// Dashboard is everything the customer home screen loads at once.
type Dashboard struct {
	Trucks         []analytics.RatedTruck `json:"trucks"`
	Favorites      []models.Favorite      `json:"favorites"`
	FavoriteTrucks []string               `json:"favorite_truck_ids"`
}

type DashboardService struct {
	trucks    *TruckService
	favorites *FavoriteService
}

func NewDashboardService(trucks *TruckService, favorites *FavoriteService) *DashboardService {
	return &DashboardService{trucks: trucks, favorites: favorites}
}

func (s *DashboardService) Load(ctx context.Context, userID string, f analytics.TruckFilter) (*Dashboard, error) {
	trucks, err := s.trucks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	favs, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(favs))
	for i, fav := range favs {
		ids[i] = fav.TruckID
	}
	return &Dashboard{Trucks: trucks, Favorites: favs, FavoriteTrucks: ids}, nil
}
