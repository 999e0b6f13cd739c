package service

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ConversionStore is the persistence surface of the payment-approval flow.
type ConversionStore interface {
	GetDemoByID(ctx context.Context, id string) (*models.Demo, error)
	UpdateDemoFields(ctx context.Context, id string, fields map[string]interface{}) error
	CreatePayment(ctx context.Context, p *models.Payment) error
	// ConvertDemo must flip the demo out of PAYMENT_PENDING and create the
	// student and subscription in one transaction, failing with
	// InvalidStateError when the demo is in any other status.
	ConvertDemo(ctx context.Context, demoID string, student *models.Student, sub *models.Subscription) error
}

// ConversionService runs the two-step state machine that turns an interested
// demo into a Student + Subscription pair.
type ConversionService struct {
	store    ConversionStore
	notifier Notifier
	logger   *zap.Logger
}

func NewConversionService(store ConversionStore, notifier Notifier, logger *zap.Logger) *ConversionService {
	return &ConversionService{store: store, notifier: notifier, logger: logger}
}

// SubmitPaymentProof merges the chosen plan and the payment-method snapshot
// onto the demo and moves it to PAYMENT_PENDING. No payment verification
// happens here; a human admin verifies out of band before approving.
func (s *ConversionService) SubmitPaymentProof(ctx context.Context, demoID string, plan, payment map[string]interface{}) error {
	if _, err := s.store.GetDemoByID(ctx, demoID); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}
	now := time.Now()
	details := make(map[string]interface{}, len(payment)+1)
	for k, v := range payment {
		details[k] = v
	}
	details["submittedAt"] = now.Format(time.RFC3339)

	err := s.store.UpdateDemoFields(ctx, demoID, map[string]interface{}{
		"selected_plan":   datatypes.JSONMap(plan),
		"payment_details": datatypes.JSONMap(details),
		"status":          models.DemoPaymentPending,
	})
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}

	method, _ := details["method"].(string)
	p := &models.Payment{
		DemoID:      demoID,
		Method:      method,
		Amount:      planAmount(plan),
		Details:     datatypes.JSONMap(details),
		Status:      models.PaymentUnverified,
		SubmittedAt: now,
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		// the proof itself landed; the trail row is secondary
		s.logger.Warn("payment trail row not recorded", zap.String("demo_id", demoID), zap.Error(err))
	}
	return nil
}

// ApprovePayment converts a PAYMENT_PENDING demo: one new Student, one new
// Subscription, demo flipped to CONVERTED, welcome email enqueued. The store
// transaction guarantees at most one conversion per demo even under
// concurrent duplicate approvals.
func (s *ConversionService) ApprovePayment(ctx context.Context, demoID string) (*models.Student, error) {
	d, err := s.store.GetDemoByID(ctx, demoID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("demo")
		}
		return nil, apperr.Store(err)
	}
	if d.Status != models.DemoPaymentPending {
		return nil, apperr.InvalidState("Demo is not pending payment approval")
	}

	accountID, err := utils.GenerateAccountID()
	if err != nil {
		return nil, apperr.Store(err)
	}
	studentID, err := utils.GenerateStudentID()
	if err != nil {
		return nil, apperr.Store(err)
	}

	now := time.Now()
	student := &models.Student{
		ID:              studentID,
		AccountID:       accountID,
		StudentName:     d.StudentName,
		ParentName:      d.ParentName,
		ParentEmail:     d.ParentEmail,
		Phone:           d.Phone,
		Timezone:        d.Timezone,
		Level:           d.RecommendedLevel,
		DemoID:          d.ID,
		AssignedCoachID: d.AssignedCoachID,
		Status:          models.StudentActive,
		Source:          models.StudentSourceDemo,
	}
	sub := subscriptionFromPlan(d.SelectedPlan, accountID, studentID, now)

	if err := s.store.ConvertDemo(ctx, demoID, student, sub); err != nil {
		return nil, apperr.FromError(err)
	}

	s.notifier.Welcome(d.ParentEmail, d.ParentName, d.StudentName, accountID)
	return student, nil
}

// subscriptionFromPlan builds the billing record from the demo's plan
// snapshot, falling back to the standard plan when the snapshot is absent
// or partial.
func subscriptionFromPlan(plan map[string]interface{}, accountID, studentID string, start time.Time) *models.Subscription {
	sub := &models.Subscription{
		AccountID:    accountID,
		StudentID:    studentID,
		PlanID:       "default",
		PlanName:     "Standard Plan",
		Amount:       0,
		BillingCycle: models.BillingMonthly,
		Status:       models.SubscriptionActive,
		StartDate:    start,
	}
	if plan == nil {
		return sub
	}
	if v, ok := plan["id"].(string); ok && v != "" {
		sub.PlanID = v
	}
	if v, ok := plan["name"].(string); ok && v != "" {
		sub.PlanName = v
	}
	sub.Amount = planAmount(plan)
	if v, ok := plan["billingCycle"].(string); ok {
		switch models.BillingCycle(v) {
		case models.BillingMonthly, models.BillingQuarterly, models.BillingYearly:
			sub.BillingCycle = models.BillingCycle(v)
		}
	}
	return sub
}

func planAmount(plan map[string]interface{}) float64 {
	for _, key := range []string{"price", "amount"} {
		switch v := plan[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}
