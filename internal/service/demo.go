package service

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Notifier is the fire-and-forget email surface services emit into. A real
// send happens on the notify queue; nothing here waits on delivery.
type Notifier interface {
	DemoReceived(parentEmail, parentName, studentName string)
	PaymentLink(parentEmail, parentName, demoID string)
	Welcome(parentEmail, parentName, studentName, accountID string)
	CoachCredentials(coachEmail, coachName, setupToken string)
	ContactRelay(name, email, phone, message string)
}

// DemoStore is the persistence surface the demo lifecycle needs.
type DemoStore interface {
	CreateDemo(ctx context.Context, d *models.Demo) error
	GetDemoByID(ctx context.Context, id string) (*models.Demo, error)
	ListDemos(ctx context.Context, status models.DemoStatus) ([]*models.Demo, error)
	UpdateDemoFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteDemo(ctx context.Context, id string) error
	GetCoachByUserID(ctx context.Context, userID string) (*models.Coach, error)
}

type DemoService struct {
	store    DemoStore
	notifier Notifier
	logger   *zap.Logger
	validate *validator.Validate
}

func NewDemoService(store DemoStore, notifier Notifier, logger *zap.Logger) *DemoService {
	return &DemoService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(),
	}
}

type BookDemoInput struct {
	StudentName       string `json:"student_name" validate:"required"`
	ParentName        string `json:"parent_name" validate:"required"`
	ParentEmail       string `json:"parent_email" validate:"required,email"`
	Phone             string `json:"phone" validate:"required"`
	ChessExperience   string `json:"chess_experience"`
	PreferredDateTime string `json:"preferred_date_time"`
	Timezone          string `json:"timezone"`
}

// BookDemo creates a PENDING demo from the public booking form and sends a
// best-effort acknowledgement.
func (s *DemoService) BookDemo(ctx context.Context, in BookDemoInput) (*models.Demo, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("invalid booking form: " + err.Error())
	}
	d := &models.Demo{
		StudentName:       in.StudentName,
		ParentName:        in.ParentName,
		ParentEmail:       in.ParentEmail,
		Phone:             in.Phone,
		ChessExperience:   in.ChessExperience,
		PreferredDateTime: in.PreferredDateTime,
		Timezone:          in.Timezone,
		Status:            models.DemoPending,
	}
	if err := s.store.CreateDemo(ctx, d); err != nil {
		return nil, apperr.Store(err)
	}
	s.notifier.DemoReceived(d.ParentEmail, d.ParentName, d.StudentName)
	return d, nil
}

// AssignCoach binds a coach, meeting link, and slot to a demo and moves it
// to SCHEDULED. Calling it again on a SCHEDULED demo overwrites the previous
// assignment; that is how reassignment works.
func (s *DemoService) AssignCoach(ctx context.Context, demoID, coachID, assignedBy, meetingLink string, scheduledStart time.Time) error {
	if coachID == "" {
		return apperr.Validation("coach is required")
	}
	if meetingLink == "" {
		return apperr.Validation("meeting link is required")
	}
	if err := s.validate.Var(meetingLink, "url"); err != nil {
		return apperr.Validation("meeting link must be a valid URL")
	}
	if scheduledStart.IsZero() {
		return apperr.Validation("scheduled start is required")
	}
	// resolve against the live roster, no caching
	if _, err := s.store.GetCoachByUserID(ctx, coachID); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("coach")
		}
		return apperr.Store(err)
	}
	err := s.store.UpdateDemoFields(ctx, demoID, map[string]interface{}{
		"assigned_coach_id": coachID,
		"assigned_by":       assignedBy,
		"meeting_link":      meetingLink,
		"scheduled_start":   scheduledStart,
		"status":            models.DemoScheduled,
	})
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}
	return nil
}

type OutcomeForm struct {
	DemoOutcome            models.DemoOutcome `json:"demo_outcome"`
	RecommendedLevel       string             `json:"recommended_level"`
	RecommendedStudentType string             `json:"recommended_student_type"`
	ParentInterest         string             `json:"parent_interest"`
	AdminNotes             string             `json:"admin_notes"`
}

func validateOutcomeForm(form OutcomeForm) error {
	if form.DemoOutcome == "" {
		return apperr.Validation("demo outcome is required")
	}
	if _, ok := models.StatusForOutcome(form.DemoOutcome); !ok {
		return apperr.Validation("unrecognized demo outcome: " + string(form.DemoOutcome))
	}
	if form.DemoOutcome == models.OutcomeAttended || form.DemoOutcome == models.OutcomeInterested {
		if form.RecommendedLevel == "" {
			return apperr.Validation("recommended level is required")
		}
		if form.RecommendedStudentType == "" {
			return apperr.Validation("recommended student type is required")
		}
		if form.ParentInterest == "" {
			return apperr.Validation("parent interest is required")
		}
	}
	return nil
}

// SubmitOutcome records the judged result of a demo and moves it to the
// status the outcome maps to. The store accepts anything, so validation is
// enforced here before the write.
func (s *DemoService) SubmitOutcome(ctx context.Context, demoID string, form OutcomeForm) error {
	if err := validateOutcomeForm(form); err != nil {
		return err
	}
	d, err := s.store.GetDemoByID(ctx, demoID)
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}
	status, _ := models.StatusForOutcome(form.DemoOutcome)
	err = s.store.UpdateDemoFields(ctx, demoID, map[string]interface{}{
		"demo_outcome":             form.DemoOutcome,
		"recommended_level":        form.RecommendedLevel,
		"recommended_student_type": form.RecommendedStudentType,
		"parent_interest":          form.ParentInterest,
		"admin_notes":              form.AdminNotes,
		"status":                   status,
	})
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}
	if status == models.DemoInterested {
		s.notifier.PaymentLink(d.ParentEmail, d.ParentName, d.ID)
	}
	return nil
}

// OutcomeCompletion returns how much of the outcome form is filled in, as a
// 0-100 value. Required fields depend on the selected outcome; the value is
// recomputed per call and never persisted.
func OutcomeCompletion(form OutcomeForm) int {
	required := 1 // the outcome itself
	completed := 0
	if form.DemoOutcome != "" {
		completed++
	}
	if form.DemoOutcome == models.OutcomeAttended || form.DemoOutcome == models.OutcomeInterested {
		required += 3
		for _, v := range []string{form.RecommendedLevel, form.RecommendedStudentType, form.ParentInterest} {
			if v != "" {
				completed++
			}
		}
	}
	return completed * 100 / required
}

func (s *DemoService) GetDemo(ctx context.Context, id string) (*models.Demo, error) {
	d, err := s.store.GetDemoByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("demo")
		}
		return nil, apperr.Store(err)
	}
	return d, nil
}

func (s *DemoService) ListDemos(ctx context.Context, status models.DemoStatus) ([]*models.Demo, error) {
	res, err := s.store.ListDemos(ctx, status)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return res, nil
}

// DeleteDemo removes a demo that has not reached a terminal status.
func (s *DemoService) DeleteDemo(ctx context.Context, id string) error {
	d, err := s.store.GetDemoByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("demo")
		}
		return apperr.Store(err)
	}
	if d.Status.Terminal() {
		return apperr.InvalidState("demo in status " + string(d.Status) + " cannot be deleted")
	}
	if err := s.store.DeleteDemo(ctx, id); err != nil {
		return apperr.Store(err)
	}
	return nil
}
