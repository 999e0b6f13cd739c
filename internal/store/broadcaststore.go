package store

import (
	"context"

	"github.com/aneeshsrinivas/academy-api/internal/models"
)

func (s *Store) CreateBroadcast(ctx context.Context, b *models.Broadcast) error {
	return s.DB.WithContext(ctx).Create(b).Error
}

func (s *Store) ListBroadcasts(ctx context.Context) ([]*models.Broadcast, error) {
	var res []*models.Broadcast
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) CreateContactInquiry(ctx context.Context, c *models.ContactInquiry) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *Store) ListContactInquiries(ctx context.Context) ([]*models.ContactInquiry, error) {
	var res []*models.ContactInquiry
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
