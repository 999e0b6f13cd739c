package service

import (
	"context"
	"time"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const setupTokenTTL = 48 * time.Hour

// CoachStore is the persistence surface for applications and the roster.
type CoachStore interface {
	CreateCoachApplication(ctx context.Context, a *models.CoachApplication) error
	GetCoachApplicationByID(ctx context.Context, id string) (*models.CoachApplication, error)
	ListPendingCoachApplications(ctx context.Context) ([]*models.CoachApplication, error)
	ApproveCoachApplication(ctx context.Context, appID string, coach *models.Coach, approvedBy string) error
	ListCoaches(ctx context.Context) ([]*models.Coach, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SavePasswordSetupToken(ctx context.Context, userID, plainToken string, expiresAt time.Time) error
}

type CoachService struct {
	store    CoachStore
	notifier Notifier
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCoachService(store CoachStore, notifier Notifier, logger *zap.Logger) *CoachService {
	return &CoachService{store: store, notifier: notifier, logger: logger, validate: validator.New()}
}

type CoachApplicationInput struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Title      string `json:"title"`
	FideRating int    `json:"fide_rating" validate:"gte=0,lte=3000"`
	Experience string `json:"experience"`
	Department string `json:"department"`
}

// Apply records a prospective coach's application, status PENDING.
func (s *CoachService) Apply(ctx context.Context, in CoachApplicationInput) (*models.CoachApplication, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("invalid application: " + err.Error())
	}
	a := &models.CoachApplication{
		FullName:   in.FullName,
		Email:      in.Email,
		Phone:      in.Phone,
		Title:      in.Title,
		FideRating: in.FideRating,
		Experience: in.Experience,
		Department: in.Department,
		Status:     models.ApplicationPending,
	}
	if err := s.store.CreateCoachApplication(ctx, a); err != nil {
		return nil, apperr.Store(err)
	}
	return a, nil
}

func (s *CoachService) PendingApplications(ctx context.Context) ([]*models.CoachApplication, error) {
	res, err := s.store.ListPendingCoachApplications(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return res, nil
}

func (s *CoachService) Roster(ctx context.Context) ([]*models.Coach, error) {
	res, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return res, nil
}

// Approve turns a pending application into a login account plus a roster
// profile, then mails the coach a one-time password-setup link. The
// temporary password is generated and hashed server-side and never sent
// anywhere.
func (s *CoachService) Approve(ctx context.Context, applicationID, approvedBy string) (*models.Coach, error) {
	app, err := s.store.GetCoachApplicationByID(ctx, applicationID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("coach application")
		}
		return nil, apperr.Store(err)
	}
	if app.Status != models.ApplicationPending {
		return nil, apperr.InvalidState("application is not pending")
	}
	if _, err := s.store.GetUserByEmail(ctx, app.Email); err == nil {
		return nil, apperr.Conflict("email already in use")
	} else if !isNotFound(err) {
		return nil, apperr.Store(err)
	}

	hash, err := utils.HashPassword(utils.GenerateRandomString(16))
	if err != nil {
		return nil, apperr.Store(err)
	}
	user := &models.User{
		Email:        app.Email,
		PasswordHash: hash,
		FullName:     app.FullName,
		Role:         models.RoleCoach,
		Active:       true,
	}
	// retry on the rare id collision
	for i := 0; i < 5; i++ {
		uid, err2 := utils.GenerateUserID()
		if err2 != nil {
			return nil, apperr.Store(err2)
		}
		user.ID = uid
		if err = s.store.CreateUser(ctx, user); err == nil {
			break
		}
	}
	if err != nil {
		return nil, apperr.Store(err)
	}

	coach := &models.Coach{
		UserID:     user.ID,
		FullName:   app.FullName,
		Email:      app.Email,
		Phone:      app.Phone,
		Title:      app.Title,
		FideRating: app.FideRating,
		Experience: app.Experience,
		Department: app.Department,
	}
	if err := s.store.ApproveCoachApplication(ctx, applicationID, coach, approvedBy); err != nil {
		if isNotFound(err) {
			return nil, apperr.InvalidState("application is not pending")
		}
		return nil, apperr.Store(err)
	}

	token := utils.RandomToken()
	if err := s.store.SavePasswordSetupToken(ctx, user.ID, token, time.Now().Add(setupTokenTTL)); err != nil {
		// account exists; the coach can still go through forgot-password
		s.logger.Error("saving password setup token", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		s.notifier.CoachCredentials(app.Email, app.FullName, token)
	}
	return coach, nil
}
