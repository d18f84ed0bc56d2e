package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"food-truck-api/apperrors"
	"food-truck-api/models"
	"food-truck-api/store"
)

type SignUpInput struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Username string          `json:"username" validate:"required,min=3,max=32"`
	Role     models.UserRole `json:"role" validate:"required,oneof=customer driver"`
	Phone    string          `json:"phone" validate:"omitempty,max=20"`
}

// ProfileInput carries the editable profile fields. Role and email are
// fixed once the account exists.
type ProfileInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type AuthService struct {
	store *store.Store
	log   *logrus.Logger
}

func NewAuthService(st *store.Store, log *logrus.Logger) *AuthService {
	return &AuthService{store: st, log: log}
}

// SignUp creates the account. Uniqueness is checked up front for a clear
// message and enforced again by the unique indexes.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	taken, err := s.store.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("email already registered")
	}
	taken, err = s.store.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Transient("service.SignUp", err)
	}

	user := &models.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hashed),
		Role:         in.Role,
		Phone:        in.Phone,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user signed up")
	return user, nil
}

// SignIn checks the credentials. Unknown email and wrong password give the
// same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	return user, nil
}

func (s *AuthService) Current(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		current, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if name != current.Username {
			taken, err := s.store.UsernameTaken(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.Conflict("username already taken")
			}
			updates["username"] = name
		}
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if len(updates) == 0 {
		return s.store.GetUser(ctx, userID)
	}
	return s.store.UpdateUser(ctx, userID, updates)
}
