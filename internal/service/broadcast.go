package service

import (
	"context"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// BroadcastStore covers announcements and contact inquiries.
type BroadcastStore interface {
	CreateBroadcast(ctx context.Context, b *models.Broadcast) error
	ListBroadcasts(ctx context.Context) ([]*models.Broadcast, error)
	CreateContactInquiry(ctx context.Context, c *models.ContactInquiry) error
}

type BroadcastService struct {
	store    BroadcastStore
	notifier Notifier
	validate *validator.Validate
}

func NewBroadcastService(store BroadcastStore, notifier Notifier) *BroadcastService {
	return &BroadcastService{store: store, notifier: notifier, validate: validator.New()}
}

// Publish records an announcement for all dashboard users.
func (s *BroadcastService) Publish(ctx context.Context, title, body, createdBy string) (*models.Broadcast, error) {
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	b := &models.Broadcast{
		Title:     title,
		Body:      body,
		Audience:  "ALL",
		CreatedBy: createdBy,
	}
	if err := s.store.CreateBroadcast(ctx, b); err != nil {
		return nil, apperr.Store(err)
	}
	return b, nil
}

func (s *BroadcastService) List(ctx context.Context) ([]*models.Broadcast, error) {
	res, err := s.store.ListBroadcasts(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return res, nil
}

type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// SubmitContact persists the inquiry and relays it to the academy inbox
// best-effort.
func (s *BroadcastService) SubmitContact(ctx context.Context, in ContactInput) (*models.ContactInquiry, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("invalid contact form: " + err.Error())
	}
	c := &models.ContactInquiry{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
		Status:  models.ContactInquiryNew,
	}
	if err := s.store.CreateContactInquiry(ctx, c); err != nil {
		return nil, apperr.Store(err)
	}
	s.notifier.ContactRelay(in.Name, in.Email, in.Phone, in.Message)
	return c, nil
}
