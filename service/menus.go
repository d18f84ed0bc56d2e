package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"food-truck-api/apperrors"
	"food-truck-api/metrics"
	"food-truck-api/models"
	"food-truck-api/store"
)

type MenuInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type MenuItemInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	Price       float64 `json:"price" validate:"gt=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Available   *bool   `json:"available"`
}

type MenuItemUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Available   *bool    `json:"available"`
}

type MenuService struct {
	store *store.Store
	log   *logrus.Logger
}

func NewMenuService(st *store.Store, log *logrus.Logger) *MenuService {
	return &MenuService{store: st, log: log}
}

func (s *MenuService) CreateMenu(ctx context.Context, driverID, truckID string, in MenuInput) (*models.Menu, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := ownedTruck(ctx, s.store, truckID, driverID); err != nil {
		return nil, err
	}
	menu := &models.Menu{TruckID: truckID, Name: strings.TrimSpace(in.Name), ImageURL: in.ImageURL}
	if err := s.store.CreateMenu(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *MenuService) UpdateMenu(ctx context.Context, driverID, menuID string, in MenuInput) (*models.Menu, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedMenu(ctx, driverID, menuID); err != nil {
		return nil, err
	}
	return s.store.UpdateMenu(ctx, menuID, map[string]interface{}{
		"name":      strings.TrimSpace(in.Name),
		"image_url": in.ImageURL,
	})
}

func (s *MenuService) ListMenus(ctx context.Context, truckID string) ([]models.Menu, error) {
	if _, err := s.store.GetTruck(ctx, truckID); err != nil {
		return nil, err
	}
	return s.store.ListMenusByTruck(ctx, truckID)
}

func (s *MenuService) AddItem(ctx context.Context, driverID, menuID string, in MenuItemInput) (*models.MenuItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	menu, err := s.ownedMenu(ctx, driverID, menuID)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		MenuID:      menu.ID,
		TruckID:     menu.TruckID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Available:   true,
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	// gorm skips zero values that have a column default
	if in.Available != nil && !*in.Available {
		return s.store.UpdateMenuItem(ctx, item.ID, map[string]interface{}{"available": false})
	}
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, driverID, itemID string, in MenuItemUpdate) (*models.MenuItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedTruck(ctx, s.store, item.TruckID, driverID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Available != nil {
		updates["available"] = *in.Available
	}
	if len(updates) == 0 {
		return item, nil
	}
	return s.store.UpdateMenuItem(ctx, itemID, updates)
}

func (s *MenuService) DeleteItem(ctx context.Context, driverID, itemID string) error {
	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := ownedTruck(ctx, s.store, item.TruckID, driverID); err != nil {
		return err
	}
	return s.store.DeleteMenuItem(ctx, itemID)
}

// ListItemsByMenu returns the menu's items; a deleted or unknown menu has
// none.
func (s *MenuService) ListItemsByMenu(ctx context.Context, menuID string) ([]models.MenuItem, error) {
	return s.store.ListMenuItemsByMenu(ctx, menuID)
}

func (s *MenuService) ListItemsByTruck(ctx context.Context, truckID string) ([]models.MenuItem, error) {
	return s.store.ListMenuItemsByTruck(ctx, truckID)
}

// DeleteMenu removes the menu and all its items. The intent is recorded
// first so that a failed attempt is picked up again by
// ResumePendingDeletions. Repeating a finished deletion succeeds.
func (s *MenuService) DeleteMenu(ctx context.Context, driverID, menuID string) error {
	menu, err := s.store.GetMenu(ctx, menuID)
	switch {
	case err == nil:
		if _, err := ownedTruck(ctx, s.store, menu.TruckID, driverID); err != nil {
			return err
		}
		if _, err := s.store.RecordMenuDeletion(ctx, menu.ID, menu.TruckID); err != nil {
			return err
		}
	case apperrors.IsNotFound(err):
		intent, ierr := s.store.GetMenuDeletion(ctx, menuID)
		if ierr != nil {
			// no menu and no intent: the menu never existed
			return err
		}
		if _, err := ownedTruck(ctx, s.store, intent.TruckID, driverID); err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		if intent.Status == models.DeletionDone {
			return nil
		}
	default:
		return err
	}
	return s.execute(ctx, menuID)
}

// ResumePendingDeletions finishes up to limit interrupted menu deletions and
// returns how many completed. Failures stay pending for the next run.
func (s *MenuService) ResumePendingDeletions(ctx context.Context, limit int) (int, error) {
	intents, err := s.store.ListPendingMenuDeletions(ctx, limit)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, intent := range intents {
		if ctx.Err() != nil {
			return done, apperrors.Transient("service.ResumePendingDeletions", ctx.Err())
		}
		if err := s.execute(ctx, intent.MenuID); err != nil {
			continue
		}
		done++
	}
	return done, nil
}

func (s *MenuService) execute(ctx context.Context, menuID string) error {
	if err := s.store.ExecuteMenuDeletion(ctx, menuID); err != nil {
		metrics.RecordMenuDeletion("failed")
		s.log.WithError(err).WithField("menu_id", menuID).Warn("menu deletion failed, will retry")
		if merr := s.store.MarkMenuDeletionFailed(ctx, menuID, err); merr != nil {
			s.log.WithError(merr).WithField("menu_id", menuID).Error("failed to record menu deletion failure")
		}
		return err
	}
	metrics.RecordMenuDeletion("done")
	s.log.WithField("menu_id", menuID).Info("menu deleted")
	return nil
}

func (s *MenuService) ownedMenu(ctx context.Context, driverID, menuID string) (*models.Menu, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedTruck(ctx, s.store, menu.TruckID, driverID); err != nil {
		return nil, err
	}
	return menu, nil
}
