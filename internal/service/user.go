package service

import (
	"context"
	"errors"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

// UserStore is the persistence surface for account management.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserFields(ctx context.Context, id string, fields map[string]interface{}) error
	ConsumePasswordSetupToken(ctx context.Context, plainToken string) (string, error)
}

type UserService struct {
	store UserStore
}

func NewUserService(s UserStore) *UserService {
	return &UserService{store: s}
}

// CreateUser provisions a login account. An empty password gets a random
// one (e.g. for OAuth users); the caller can reset it later.
func (u *UserService) CreateUser(ctx context.Context, email, password, fullName string, role models.Role) (*models.User, error) {
	if password == "" {
		password = utils.GenerateRandomString(12)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		Active:       true,
	}
	// try create; if conflict on ID (rare), regenerate few times
	for i := 0; i < 5; i++ {
		uid, err2 := utils.GenerateUserID()
		if err2 != nil {
			return nil, err2
		}
		user.ID = uid
		if err = u.store.CreateUser(ctx, user); err == nil {
			return user, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return nil, errors.New("could not create unique user id")
}

// SetPassword burns a one-time setup token and stores the new password.
func (u *UserService) SetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	userID, err := u.store.ConsumePasswordSetupToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("setup token")
		}
		return apperr.Store(err)
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Store(err)
	}
	if err := u.store.UpdateUserFields(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return apperr.Store(err)
	}
	return nil
}
