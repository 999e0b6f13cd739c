package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
)

// memStore is an in-memory stand-in for the gorm store, honoring the same
// contracts the services rely on (not-found errors, the conversion CAS).
type memStore struct {
	mu sync.Mutex

	demos    map[string]*models.Demo
	students map[string]*models.Student
	subs     map[string]*models.Subscription
	payments []*models.Payment
	coaches  map[string]*models.Coach
	apps     map[string]*models.CoachApplication
	users    map[string]*models.User
	tokens   map[string]string // setup token -> user id
	chats    map[string][]*models.ChatMessage
	bcasts   []*models.Broadcast
	inquiries []*models.ContactInquiry

	failWith error
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		demos:    map[string]*models.Demo{},
		students: map[string]*models.Student{},
		subs:     map[string]*models.Subscription{},
		coaches:  map[string]*models.Coach{},
		apps:     map[string]*models.CoachApplication{},
		users:    map[string]*models.User{},
		tokens:   map[string]string{},
		chats:    map[string][]*models.ChatMessage{},
	}
}

func (m *memStore) genID() string {
	m.nextID++
	return "id-" + string(rune('a'+m.nextID-1))
}

func (m *memStore) CreateDemo(_ context.Context, d *models.Demo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if d.ID == "" {
		d.ID = m.genID()
	}
	d.CreatedAt = time.Now()
	m.demos[d.ID] = d
	return nil
}

func (m *memStore) GetDemoByID(_ context.Context, id string) (*models.Demo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	d, ok := m.demos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memStore) ListDemos(_ context.Context, status models.DemoStatus) ([]*models.Demo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Demo
	for _, d := range m.demos {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) UpdateDemoFields(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	d, ok := m.demos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	applyDemoFields(d, fields)
	return nil
}

func applyDemoFields(d *models.Demo, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "assigned_coach_id":
			id := v.(string)
			d.AssignedCoachID = &id
		case "assigned_by":
			d.AssignedBy = v.(string)
		case "meeting_link":
			d.MeetingLink = v.(string)
		case "scheduled_start":
			t := v.(time.Time)
			d.ScheduledStart = &t
		case "status":
			d.Status = v.(models.DemoStatus)
		case "demo_outcome":
			d.DemoOutcome = v.(models.DemoOutcome)
		case "recommended_level":
			d.RecommendedLevel = v.(string)
		case "recommended_student_type":
			d.RecommendedStudentType = v.(string)
		case "parent_interest":
			d.ParentInterest = v.(string)
		case "admin_notes":
			d.AdminNotes = v.(string)
		case "selected_plan":
			d.SelectedPlan = toJSONMap(v)
		case "payment_details":
			d.PaymentDetails = toJSONMap(v)
		}
	}
}

func toJSONMap(v interface{}) datatypes.JSONMap {
	switch m := v.(type) {
	case datatypes.JSONMap:
		return m
	case map[string]interface{}:
		return datatypes.JSONMap(m)
	default:
		return nil
	}
}

func (m *memStore) DeleteDemo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.demos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.demos, id)
	return nil
}

func (m *memStore) GetCoachByUserID(_ context.Context, userID string) (*models.Coach, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coaches[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *memStore) CreatePayment(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.payments = append(m.payments, p)
	return nil
}

// ConvertDemo mirrors the store transaction: conditional flip out of
// PAYMENT_PENDING, then create both rows.
func (m *memStore) ConvertDemo(_ context.Context, demoID string, student *models.Student, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	d, ok := m.demos[demoID]
	if !ok || d.Status != models.DemoPaymentPending {
		return apperr.InvalidState("Demo is not pending payment approval")
	}
	now := time.Now()
	d.Status = models.DemoConverted
	d.ConvertedStudentID = &student.ID
	d.PaymentApprovedAt = &now
	m.students[student.ID] = student
	m.subs[sub.StudentID] = sub
	return nil
}

func (m *memStore) CreateCoachApplication(_ context.Context, a *models.CoachApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = m.genID()
	}
	m.apps[a.ID] = a
	return nil
}

func (m *memStore) GetCoachApplicationByID(_ context.Context, id string) (*models.CoachApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) ListPendingCoachApplications(_ context.Context) ([]*models.CoachApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CoachApplication
	for _, a := range m.apps {
		if a.Status == models.ApplicationPending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ApproveCoachApplication(_ context.Context, appID string, coach *models.Coach, approvedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[appID]
	if !ok || a.Status != models.ApplicationPending {
		return gorm.ErrRecordNotFound
	}
	a.Status = models.ApplicationApproved
	a.ApprovedBy = approvedBy
	m.coaches[coach.UserID] = coach
	return nil
}

func (m *memStore) ListCoaches(_ context.Context) ([]*models.Coach, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Coach
	for _, c := range m.coaches {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) UpdateUserFields(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if h, ok := fields["password_hash"].(string); ok {
		u.PasswordHash = h
	}
	return nil
}

func (m *memStore) SavePasswordSetupToken(_ context.Context, userID, plainToken string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.tokens[plainToken] = userID
	return nil
}

func (m *memStore) ConsumePasswordSetupToken(_ context.Context, plainToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[plainToken]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	delete(m.tokens, plainToken)
	return id, nil
}

func (m *memStore) EnsureChat(_ context.Context, chatID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chats[chatID]; !ok {
		m.chats[chatID] = nil
	}
	return nil
}

func (m *memStore) AppendMessage(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if msg.ID == "" {
		msg.ID = m.genID()
	}
	msg.CreatedAt = time.Now()
	m.chats[msg.ChatID] = append(m.chats[msg.ChatID], msg)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, chatID string) ([]*models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.ChatMessage, len(m.chats[chatID]))
	copy(out, m.chats[chatID])
	return out, nil
}

func (m *memStore) CreateBroadcast(_ context.Context, b *models.Broadcast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = m.genID()
	}
	b.CreatedAt = time.Now()
	m.bcasts = append(m.bcasts, b)
	return nil
}

func (m *memStore) ListBroadcasts(_ context.Context) ([]*models.Broadcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Broadcast(nil), m.bcasts...), nil
}

func (m *memStore) CreateContactInquiry(_ context.Context, c *models.ContactInquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.inquiries = append(m.inquiries, c)
	return nil
}

// fakeNotifier records every emitted notification.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNotifier) record(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeNotifier) DemoReceived(_, _, _ string)     { f.record("demo-received") }
func (f *fakeNotifier) PaymentLink(_, _, _ string)      { f.record("payment-link") }
func (f *fakeNotifier) Welcome(_, _, _, _ string)       { f.record("welcome") }
func (f *fakeNotifier) CoachCredentials(_, _, _ string) { f.record("coach-credentials") }
func (f *fakeNotifier) ContactRelay(_, _, _, _ string)  { f.record("contact-relay") }
