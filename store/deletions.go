package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"food-truck-api/models"
)

// RecordMenuDeletion stores the intent to delete a menu. Recording the same
// menu twice returns the existing intent.
func (s *Store) RecordMenuDeletion(ctx context.Context, menuID, truckID string) (*models.MenuDeletion, error) {
	intent := models.MenuDeletion{MenuID: menuID, TruckID: truckID, Status: models.DeletionPending}
	err := s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "menu_id"}}, DoNothing: true}).
		Create(&intent).Error
	if err != nil {
		return nil, translate("store.RecordMenuDeletion", "menu deletion", menuID, err)
	}
	return s.GetMenuDeletion(ctx, menuID)
}

func (s *Store) GetMenuDeletion(ctx context.Context, menuID string) (*models.MenuDeletion, error) {
	var intent models.MenuDeletion
	if err := s.conn(ctx).First(&intent, "menu_id = ?", menuID).Error; err != nil {
		return nil, translate("store.GetMenuDeletion", "menu deletion", menuID, err)
	}
	return &intent, nil
}

// ExecuteMenuDeletion removes the menu's items and the menu, then marks the
// intent done, all in one transaction. Rows already gone are not an error,
// so a resumed deletion converges.
func (s *Store) ExecuteMenuDeletion(ctx context.Context, menuID string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menuID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", menuID).Delete(&models.Menu{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.MenuDeletion{}).
			Where("menu_id = ?", menuID).
			Updates(map[string]interface{}{"status": models.DeletionDone, "last_error": ""}).Error
	})
	return translate("store.ExecuteMenuDeletion", "menu", menuID, err)
}

// MarkMenuDeletionFailed bumps the attempt counter and keeps the cause.
func (s *Store) MarkMenuDeletionFailed(ctx context.Context, menuID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := s.conn(ctx).Model(&models.MenuDeletion{}).
		Where("menu_id = ?", menuID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		}).Error
	return translate("store.MarkMenuDeletionFailed", "menu deletion", menuID, err)
}

// ListPendingMenuDeletions returns up to limit unfinished intents, oldest
// first.
func (s *Store) ListPendingMenuDeletions(ctx context.Context, limit int) ([]models.MenuDeletion, error) {
	var intents []models.MenuDeletion
	q := s.conn(ctx).Where("status = ?", models.DeletionPending).Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&intents).Error; err != nil {
		return nil, translate("store.ListPendingMenuDeletions", "menu deletion", "", err)
	}
	return intents, nil
}
