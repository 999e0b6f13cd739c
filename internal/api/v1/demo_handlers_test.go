package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/service"
)

// demoStoreStub backs both the demo and conversion services in-memory.
type demoStoreStub struct {
	mu       sync.Mutex
	demos    map[string]*models.Demo
	coaches  map[string]*models.Coach
	students map[string]*models.Student
	nextID   int
}

func newDemoStoreStub() *demoStoreStub {
	return &demoStoreStub{
		demos:    map[string]*models.Demo{},
		coaches:  map[string]*models.Coach{},
		students: map[string]*models.Student{},
	}
}

func (s *demoStoreStub) CreateDemo(_ context.Context, d *models.Demo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d.ID = "demo-" + string(rune('0'+s.nextID))
	s.demos[d.ID] = d
	return nil
}

func (s *demoStoreStub) GetDemoByID(_ context.Context, id string) (*models.Demo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.demos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *demoStoreStub) ListDemos(_ context.Context, status models.DemoStatus) ([]*models.Demo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Demo
	for _, d := range s.demos {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *demoStoreStub) UpdateDemoFields(_ context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.demos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["status"]; ok {
		d.Status = v.(models.DemoStatus)
	}
	if v, ok := fields["demo_outcome"]; ok {
		d.DemoOutcome = v.(models.DemoOutcome)
	}
	if v, ok := fields["recommended_level"]; ok {
		d.RecommendedLevel = v.(string)
	}
	return nil
}

func (s *demoStoreStub) DeleteDemo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.demos, id)
	return nil
}

func (s *demoStoreStub) GetCoachByUserID(_ context.Context, id string) (*models.Coach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coaches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (s *demoStoreStub) CreatePayment(_ context.Context, _ *models.Payment) error { return nil }

func (s *demoStoreStub) ConvertDemo(_ context.Context, demoID string, student *models.Student, _ *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.demos[demoID]
	if !ok || d.Status != models.DemoPaymentPending {
		return apperr.InvalidState("Demo is not pending payment approval")
	}
	d.Status = models.DemoConverted
	d.ConvertedStudentID = &student.ID
	s.students[student.ID] = student
	return nil
}

type noopNotifier struct{}

func (noopNotifier) DemoReceived(_, _, _ string)     {}
func (noopNotifier) PaymentLink(_, _, _ string)      {}
func (noopNotifier) Welcome(_, _, _, _ string)       {}
func (noopNotifier) CoachCredentials(_, _, _ string) {}
func (noopNotifier) ContactRelay(_, _, _, _ string)  {}

func newTestRouter(store *demoStoreStub) chi.Router {
	log := zap.NewNop()
	demos := service.NewDemoService(store, noopNotifier{}, log)
	conversion := service.NewConversionService(store, noopNotifier{}, log)
	h := NewDemoHandler(demos, conversion)

	r := chi.NewRouter()
	r.Post("/demos", h.BookDemo)
	r.Post("/demos/{id}/payment-proof", h.SubmitPaymentProof)
	r.Get("/admin/demos", h.ListDemos)
	r.Get("/admin/demos/{id}", h.GetDemo)
	r.Post("/admin/demos/{id}/outcome", h.SubmitOutcome)
	r.Post("/admin/demos/{id}/outcome/preview", h.PreviewOutcome)
	r.Post("/admin/demos/{id}/approve-payment", h.ApprovePayment)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestBookDemoEndpoint(t *testing.T) {
	r := newTestRouter(newDemoStoreStub())

	rec, resp := doJSON(t, r, http.MethodPost, "/demos", `{
		"student_name": "Arjun",
		"parent_name": "Priya",
		"parent_email": "priya@example.com",
		"phone": "+911234567890"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	assert.NotEmpty(t, data["id"])
}

func TestBookDemoEndpointRejectsBadInput(t *testing.T) {
	r := newTestRouter(newDemoStoreStub())

	rec, resp := doJSON(t, r, http.MethodPost, "/demos", `{"student_name": "Arjun"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	rec, resp = doJSON(t, r, http.MethodPost, "/demos", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestDemoLifecycleOverHTTP(t *testing.T) {
	store := newDemoStoreStub()
	r := newTestRouter(store)

	_, resp := doJSON(t, r, http.MethodPost, "/demos", `{
		"student_name": "Arjun",
		"parent_name": "Priya",
		"parent_email": "priya@example.com",
		"phone": "+911234567890"
	}`)
	demoID := resp.Data.(map[string]interface{})["id"].(string)

	rec, _ := doJSON(t, r, http.MethodPost, "/admin/demos/"+demoID+"/outcome", `{
		"demo_outcome": "INTERESTED",
		"recommended_level": "Intermediate",
		"recommended_student_type": "Competitive",
		"parent_interest": "High"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/demos/"+demoID+"/payment-proof", `{
		"plan": {"id": "gold", "name": "Gold Plan", "price": 4999},
		"payment": {"method": "upi", "reference": "TXN-1"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, r, http.MethodPost, "/admin/demos/"+demoID+"/approve-payment", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	student := resp.Data.(map[string]interface{})
	assert.True(t, strings.HasPrefix(student["id"].(string), "STU"))
	assert.Equal(t, "ACTIVE", student["status"])

	// a second approval must not convert again
	rec, resp = doJSON(t, r, http.MethodPost, "/admin/demos/"+demoID+"/approve-payment", ``)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Demo is not pending payment approval", resp.Message)
	assert.Len(t, store.students, 1)
}

func TestGetDemoEndpointNotFound(t *testing.T) {
	r := newTestRouter(newDemoStoreStub())
	rec, resp := doJSON(t, r, http.MethodGet, "/admin/demos/missing", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestPreviewOutcomeEndpoint(t *testing.T) {
	r := newTestRouter(newDemoStoreStub())

	rec, resp := doJSON(t, r, http.MethodPost, "/admin/demos/any/outcome/preview", `{
		"demo_outcome": "ATTENDED",
		"recommended_level": "Beginner"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(50), data["completion"])
}
