package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID    string `gorm:"primaryKey;size:10" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `gorm:"type:text;not null" json:"role"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"index;size:10" json:"user_id"`
	TokenHash string    `gorm:"not null" json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// PasswordSetupToken is a one-time token mailed on coach approval in place
// of a plaintext temporary password.
type PasswordSetupToken struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"index;size:10" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Demo is one prospective family's trial-class request and its lifecycle
// record, from the public booking form through conversion.
type Demo struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	StudentName     string `gorm:"not null" json:"student_name"`
	ParentName      string `gorm:"not null" json:"parent_name"`
	ParentEmail     string `gorm:"index;not null" json:"parent_email"`
	Phone           string `json:"phone"`
	ChessExperience string `json:"chess_experience"`

	// Free-form preference captured at booking; ScheduledStart is the
	// assigned slot set together with AssignedCoachID.
	PreferredDateTime string     `json:"preferred_date_time"`
	ScheduledStart    *time.Time `json:"scheduled_start,omitempty"`
	Timezone          string     `json:"timezone"`

	AssignedCoachID *string `gorm:"index;size:10" json:"assigned_coach_id,omitempty"`
	AssignedBy      string  `gorm:"size:10" json:"assigned_by,omitempty"`
	MeetingLink     string  `json:"meeting_link,omitempty"`

	Status DemoStatus `gorm:"type:text;index;not null;default:'PENDING'" json:"status"`

	DemoOutcome            DemoOutcome `gorm:"type:text" json:"demo_outcome,omitempty"`
	RecommendedLevel       string      `json:"recommended_level,omitempty"`
	RecommendedStudentType string      `json:"recommended_student_type,omitempty"`
	ParentInterest         string      `json:"parent_interest,omitempty"`
	AdminNotes             string      `gorm:"type:text" json:"admin_notes,omitempty"`

	SelectedPlan   datatypes.JSONMap `gorm:"type:jsonb" json:"selected_plan,omitempty"`
	PaymentDetails datatypes.JSONMap `gorm:"type:jsonb" json:"payment_details,omitempty"`

	ConvertedStudentID *string    `gorm:"size:12" json:"converted_student_id,omitempty"`
	PaymentApprovedAt  *time.Time `json:"payment_approved_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Student is created exactly once per converted demo.
type Student struct {
	ID        string `gorm:"size:12;primaryKey" json:"id"`
	AccountID string `gorm:"uniqueIndex;not null" json:"account_id"`

	StudentName string `gorm:"not null" json:"student_name"`
	ParentName  string `json:"parent_name"`
	ParentEmail string `gorm:"index" json:"parent_email"`
	Phone       string `json:"phone"`
	Timezone    string `json:"timezone"`
	Level       string `json:"level"`

	DemoID          string  `gorm:"type:uuid;uniqueIndex" json:"demo_id"`
	AssignedCoachID *string `gorm:"index;size:10" json:"assigned_coach_id,omitempty"`

	Status string `gorm:"not null;default:'ACTIVE'" json:"status"`
	Source string `gorm:"not null" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription holds the single billing record per converted student.
type Subscription struct {
	ID        string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountID string `gorm:"index;not null" json:"account_id"`
	StudentID string `gorm:"size:12;uniqueIndex;not null" json:"student_id"`

	PlanID       string       `gorm:"not null" json:"plan_id"`
	PlanName     string       `json:"plan_name"`
	Amount       float64      `json:"amount"`
	BillingCycle BillingCycle `gorm:"type:text" json:"billing_cycle"`

	Status    string     `gorm:"not null;default:'ACTIVE'" json:"status"`
	StartDate time.Time  `json:"start_date"`
	NextDueAt *time.Time `json:"next_due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Payment is the admin-verified trail behind a conversion.
type Payment struct {
	ID     string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DemoID string `gorm:"type:uuid;index;not null" json:"demo_id"`

	Method      string            `json:"method"`
	Amount      float64           `json:"amount"`
	Details     datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`
	Status      string            `gorm:"not null;default:'PENDING_VERIFICATION'" json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	VerifiedAt  *time.Time        `json:"verified_at,omitempty"`
	VerifiedBy  string            `gorm:"size:10" json:"verified_by,omitempty"`
}

// Coach is the public roster profile; the login account lives in users.
type Coach struct {
	UserID     string `gorm:"primaryKey;size:10" json:"user_id"`
	FullName   string `gorm:"not null" json:"full_name"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string `json:"phone"`
	Title      string `json:"title"`
	FideRating int    `json:"fide_rating"`
	Experience string `gorm:"type:text" json:"experience"`
	Department string `json:"department"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CoachApplication struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	FullName   string `gorm:"not null" json:"full_name"`
	Email      string `gorm:"index;not null" json:"email"`
	Phone      string `json:"phone"`
	Title      string `json:"title"`
	FideRating int    `json:"fide_rating"`
	Experience string `gorm:"type:text" json:"experience"`
	Department string `json:"department"`

	Status     string    `gorm:"not null;default:'PENDING'" json:"status"`
	ApprovedBy string    `gorm:"size:10" json:"approved_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Chat struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage rows are append-only; there is no edit or delete path.
type ChatMessage struct {
	ID     string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChatID string `gorm:"index;not null" json:"chat_id"`

	SenderID   string `gorm:"size:10;not null" json:"sender_id"`
	SenderName string `json:"sender_name"`
	SenderRole Role   `gorm:"type:text" json:"sender_role"`
	Content    string `gorm:"type:text" json:"content"`
	FileURL    string `json:"file_url,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "messages" }

type Broadcast struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Audience  string    `gorm:"not null;default:'ALL'" json:"audience"`
	CreatedBy string    `gorm:"size:10" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactInquiry struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"not null;default:'NEW'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactInquiry) TableName() string { return "contact_inquiries" }
