package store

import (
	"context"

	"github.com/aneeshsrinivas/academy-api/internal/models"
)

func (s *Store) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	if err := s.DB.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]*models.Student, error) {
	var res []*models.Student
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) GetSubscriptionByStudentID(ctx context.Context, studentID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.DB.WithContext(ctx).First(&sub, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
