package store

import (
	"context"

	"gorm.io/gorm"

	"food-truck-api/models"
)

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	err := s.conn(ctx).Create(menu).Error
	return translate("store.CreateMenu", "menu", menu.Name, err)
}

func (s *Store) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	var menu models.Menu
	if err := s.conn(ctx).First(&menu, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetMenu", "menu", id, err)
	}
	return &menu, nil
}

// ListMenusByTruck returns the truck's menus with their items.
func (s *Store) ListMenusByTruck(ctx context.Context, truckID string) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Where("truck_id = ?", truckID).
		Order("created_at asc").
		Find(&menus).Error
	if err != nil {
		return nil, translate("store.ListMenusByTruck", "menu", "", err)
	}
	return menus, nil
}

func (s *Store) UpdateMenu(ctx context.Context, id string, updates map[string]interface{}) (*models.Menu, error) {
	if err := s.conn(ctx).Model(&models.Menu{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translate("store.UpdateMenu", "menu", id, err)
	}
	return s.GetMenu(ctx, id)
}

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := s.conn(ctx).Create(item).Error
	return translate("store.CreateMenuItem", "menu item", item.Name, err)
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.conn(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetMenuItem", "menu item", id, err)
	}
	return &item, nil
}

// GetMenuItems loads the items with the given ids. Missing ids are simply
// absent from the result.
func (s *Store) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate("store.GetMenuItems", "menu item", "", err)
	}
	return items, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, updates map[string]interface{}) (*models.MenuItem, error) {
	if err := s.conn(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translate("store.UpdateMenuItem", "menu item", id, err)
	}
	return s.GetMenuItem(ctx, id)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return translate("store.DeleteMenuItem", "menu item", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("store.DeleteMenuItem", "menu item", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Store) ListMenuItemsByMenu(ctx context.Context, menuID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.conn(ctx).Where("menu_id = ?", menuID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, translate("store.ListMenuItemsByMenu", "menu item", "", err)
	}
	return items, nil
}

func (s *Store) ListMenuItemsByTruck(ctx context.Context, truckID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.conn(ctx).Where("truck_id = ?", truckID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, translate("store.ListMenuItemsByTruck", "menu item", "", err)
	}
	return items, nil
}
