package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"food-truck-api/models"
	"food-truck-api/store"
)

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReviewService struct {
	store *store.Store
	log   *logrus.Logger
}

func NewReviewService(st *store.Store, log *logrus.Logger) *ReviewService {
	return &ReviewService{store: st, log: log}
}

// Create stores a review signed with the reviewer's current username.
func (s *ReviewService) Create(ctx context.Context, userID, truckID string, in ReviewInput) (*models.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTruck(ctx, truckID); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	review := &models.Review{
		TruckID:  truckID,
		UserID:   userID,
		UserName: user.Username,
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListForTruck(ctx context.Context, truckID string) ([]models.Review, error) {
	if _, err := s.store.GetTruck(ctx, truckID); err != nil {
		return nil, err
	}
	return s.store.ListReviewsByTruck(ctx, truckID)
}
