package store

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/models"
	"gorm.io/gorm"
)

/* ------------------ Coach roster ------------------ */

func (s *Store) CreateCoach(ctx context.Context, c *models.Coach) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *Store) GetCoachByUserID(ctx context.Context, userID string) (*models.Coach, error) {
	var c models.Coach
	if err := s.DB.WithContext(ctx).First(&c, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	var res []*models.Coach
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

/* ------------------ Applications ------------------ */

func (s *Store) CreateCoachApplication(ctx context.Context, a *models.CoachApplication) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *Store) GetCoachApplicationByID(ctx context.Context, id string) (*models.CoachApplication, error) {
	var a models.CoachApplication
	if err := s.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListPendingCoachApplications(ctx context.Context) ([]*models.CoachApplication, error) {
	var res []*models.CoachApplication
	if err := s.DB.WithContext(ctx).Where("status = ?", models.ApplicationPending).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// ApproveCoachApplication links the new auth user to the roster and flags
// the application approved, atomically.
func (s *Store) ApproveCoachApplication(ctx context.Context, appID string, coach *models.Coach, approvedBy string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(coach).Error; err != nil {
			return err
		}
		res := tx.Model(&models.CoachApplication{}).
			Where("id = ? AND status = ?", appID, models.ApplicationPending).
			Updates(map[string]interface{}{
				"status":      models.ApplicationApproved,
				"approved_by": approvedBy,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
