package store

import (
	"context"

	"food-truck-api/models"
)

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	err := s.conn(ctx).Create(review).Error
	return translate("store.CreateReview", "review", review.TruckID, err)
}

func (s *Store) ListReviewsByTruck(ctx context.Context, truckID string) ([]models.Review, error) {
	return s.ListReviewsByTrucks(ctx, []string{truckID})
}

// ListReviewsByTrucks returns reviews for all the trucks, newest first.
func (s *Store) ListReviewsByTrucks(ctx context.Context, truckIDs []string) ([]models.Review, error) {
	var reviews []models.Review
	if len(truckIDs) == 0 {
		return reviews, nil
	}
	err := s.conn(ctx).Where("truck_id IN ?", truckIDs).Order("created_at desc").Find(&reviews).Error
	if err != nil {
		return nil, translate("store.ListReviewsByTrucks", "review", "", err)
	}
	return reviews, nil
}
