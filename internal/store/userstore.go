package store

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/models"
)

/* ------------------ User CRUD ------------------ */

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUserFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	var res []*models.User
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
