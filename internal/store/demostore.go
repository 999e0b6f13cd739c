package store

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"gorm.io/gorm"
)

/* ------------------ Demo CRUD ------------------ */

func (s *Store) CreateDemo(ctx context.Context, d *models.Demo) error {
	return s.DB.WithContext(ctx).Create(d).Error
}

func (s *Store) GetDemoByID(ctx context.Context, id string) (*models.Demo, error) {
	var d models.Demo
	if err := s.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDemos returns demos newest first, optionally filtered by status.
func (s *Store) ListDemos(ctx context.Context, status models.DemoStatus) ([]*models.Demo, error) {
	q := s.DB.WithContext(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var res []*models.Demo
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateDemoFields applies a partial update. Zero rows affected means the
// demo id does not exist.
func (s *Store) UpdateDemoFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Demo{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteDemo(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Demo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

/* ------------------ Conversion ------------------ */

// ConvertDemo performs the whole approval in one transaction. The status
// flip is a conditional update keyed on PAYMENT_PENDING; zero rows affected
// means some other caller got there first (or the demo never reached
// payment), and the transaction aborts without creating anything. At most
// one Student/Subscription pair can exist per demo.
func (s *Store) ConvertDemo(ctx context.Context, demoID string, student *models.Student, sub *models.Subscription) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Demo{}).
			Where("id = ? AND status = ?", demoID, models.DemoPaymentPending).
			Updates(map[string]interface{}{
				"status":               models.DemoConverted,
				"converted_student_id": student.ID,
				"payment_approved_at":  now,
				"updated_at":           now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("Demo is not pending payment approval")
		}
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		// close out the payment trail, if a proof row exists
		return tx.Model(&models.Payment{}).
			Where("demo_id = ? AND status = ?", demoID, models.PaymentUnverified).
			Updates(map[string]interface{}{"status": models.PaymentVerified, "verified_at": now}).Error
	})
}

/* ------------------ Payments ------------------ */

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *Store) ListPaymentsForDemo(ctx context.Context, demoID string) ([]*models.Payment, error) {
	var res []*models.Payment
	if err := s.DB.WithContext(ctx).Where("demo_id = ?", demoID).Order("submitted_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
