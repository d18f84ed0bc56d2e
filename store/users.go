package store

import (
	"context"
	"strings"

	"food-truck-api/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	err := s.conn(ctx).Create(user).Error
	return translate("store.CreateUser", "user", user.Email, err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetUser", "user", id, err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	var user models.User
	if err := s.conn(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate("store.GetUserByEmail", "user", email, err)
	}
	return &user, nil
}

// EmailTaken reports whether a profile already uses email.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "store.EmailTaken", &models.User{}, "email = ?", strings.ToLower(email))
}

// UsernameTaken reports whether a profile already uses username.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "store.UsernameTaken", &models.User{}, "username = ?", username)
}

// UpdateUser applies the given column updates and returns the fresh profile.
func (s *Store) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) (*models.User, error) {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate("store.UpdateUser", "user", id, res.Error)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) exists(ctx context.Context, op string, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, translate(op, "", "", err)
	}
	return count > 0, nil
}
