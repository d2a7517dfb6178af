package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// scanEnum normalizes the driver value of a text enum column.
func scanEnum(name string, value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", name)
	}
}

// --- Role Enum ---
type Role string

const (
	RoleRequester Role = "store"
	RoleProvider  Role = "assembler"
)

func (r Role) Valid() bool { return r == RoleRequester || r == RoleProvider }

// Counterpart returns the role on the other side of a job.
func (r Role) Counterpart() Role {
	if r == RoleRequester {
		return RoleProvider
	}
	return RoleRequester
}

// Scan implements the sql.Scanner interface for Role
func (r *Role) Scan(value interface{}) error {
	s, err := scanEnum("Role", value)
	if err != nil {
		return err
	}
	if v := Role(s); v.Valid() {
		*r = v
		return nil
	}
	return fmt.Errorf("invalid Role value: %s", s)
}

// Value implements the driver.Valuer interface for Role
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// --- Job Status Enum ---
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// Scan implements the sql.Scanner interface for JobStatus
func (s *JobStatus) Scan(value interface{}) error {
	str, err := scanEnum("JobStatus", value)
	if err != nil {
		return err
	}
	if v := JobStatus(str); v.Valid() {
		*s = v
		return nil
	}
	return fmt.Errorf("invalid JobStatus value: %s", str)
}

// Value implements the driver.Valuer interface for JobStatus
func (s JobStatus) Value() (driver.Value, error) { return string(s), nil }

// --- Payment Status Enum ---
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusProofSubmitted PaymentStatus = "proof_submitted"
	PaymentStatusConfirmed      PaymentStatus = "confirmed"
	PaymentStatusRejected       PaymentStatus = "rejected"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProofSubmitted, PaymentStatusConfirmed, PaymentStatusRejected:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for PaymentStatus
func (s *PaymentStatus) Scan(value interface{}) error {
	str, err := scanEnum("PaymentStatus", value)
	if err != nil {
		return err
	}
	if v := PaymentStatus(str); v.Valid() {
		*s = v
		return nil
	}
	return fmt.Errorf("invalid PaymentStatus value: %s", str)
}

// Value implements the driver.Valuer interface for PaymentStatus
func (s PaymentStatus) Value() (driver.Value, error) { return string(s), nil }

// --- Application Status Enum ---
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value interface{}) error {
	str, err := scanEnum("ApplicationStatus", value)
	if err != nil {
		return err
	}
	if v := ApplicationStatus(str); v.Valid() {
		*s = v
		return nil
	}
	return fmt.Errorf("invalid ApplicationStatus value: %s", str)
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) { return string(s), nil }

// --- Message Type Enum ---
type MessageType string

const (
	MessageTypeText                MessageType = "text"
	MessageTypePaymentProof        MessageType = "payment_proof"
	MessageTypePaymentConfirmation MessageType = "payment_confirmation"
)

func (t MessageType) Valid() bool {
	return t == MessageTypeText || t == MessageTypePaymentProof || t == MessageTypePaymentConfirmation
}

// Scan implements the sql.Scanner interface for MessageType
func (t *MessageType) Scan(value interface{}) error {
	str, err := scanEnum("MessageType", value)
	if err != nil {
		return err
	}
	if v := MessageType(str); v.Valid() {
		*t = v
		return nil
	}
	return fmt.Errorf("invalid MessageType value: %s", str)
}

// Value implements the driver.Valuer interface for MessageType
func (t MessageType) Value() (driver.Value, error) { return string(t), nil }

// User is a marketplace account; UserType decides which side it acts on.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	UserType     Role      `json:"userType" db:"user_type"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	Email        string    `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	ProfileData  Document  `json:"profileData" db:"profile_data"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate carries the optional fields of a profile patch.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Phone       *string
	ProfileData Document
}

// Actor is the verified caller of an operation.
type Actor struct {
	UserID   int64
	Role     Role
	Username string
}

// Job is the service record: descriptive fields plus the lifecycle state.
type Job struct {
	ID           int64           `json:"id" db:"id"`
	RequesterID  int64           `json:"requesterId" db:"requester_id"`
	ProviderID   *int64          `json:"providerId,omitempty" db:"provider_id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Location     string          `json:"location" db:"location"`
	Price        decimal.Decimal `json:"price" db:"price"`
	MaterialType string          `json:"materialType" db:"material_type"`
	StartDate    time.Time       `json:"startDate" db:"start_date"`
	EndDate      *time.Time      `json:"endDate,omitempty" db:"end_date"`

	Status              JobStatus     `json:"status" db:"status"`
	PaymentStatus       PaymentStatus `json:"paymentStatus" db:"payment_status"`
	RatingRequired      bool          `json:"ratingRequired" db:"rating_required"`
	RequesterRatingDone bool          `json:"requesterRatingDone" db:"requester_rating_done"`
	ProviderRatingDone  bool          `json:"providerRatingDone" db:"provider_rating_done"`
	BothRatingsDone     bool          `json:"bothRatingsDone" db:"both_ratings_done"`
	CompletedAt         *time.Time    `json:"completedAt,omitempty" db:"completed_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RecomputeDerived refreshes BothRatingsDone from the per-side flags.
func (j *Job) RecomputeDerived() {
	j.BothRatingsDone = j.RequesterRatingDone && j.ProviderRatingDone
}

// IsProvider reports whether userID is the assigned provider.
func (j *Job) IsProvider(userID int64) bool {
	return j.ProviderID != nil && *j.ProviderID == userID
}

// RoleOf returns the side userID plays on this job.
func (j *Job) RoleOf(userID int64) (Role, bool) {
	switch {
	case j.RequesterID == userID:
		return RoleRequester, true
	case j.IsProvider(userID):
		return RoleProvider, true
	}
	return "", false
}

// RatingDone reports whether the given side has already rated.
func (j *Job) RatingDone(role Role) bool {
	if role == RoleRequester {
		return j.RequesterRatingDone
	}
	return j.ProviderRatingDone
}

// Clone returns a deep copy safe to mutate.
func (j Job) Clone() *Job {
	c := j
	if j.ProviderID != nil {
		id := *j.ProviderID
		c.ProviderID = &id
	}
	if j.EndDate != nil {
		t := *j.EndDate
		c.EndDate = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// JobFilter narrows job listings. Zero values mean no restriction.
type JobFilter struct {
	Status       *JobStatus
	MaterialType string
	RequesterID  *int64
	ProviderID   *int64
	Limit        int
	Offset       int
}

// Application is a provider's bid for an open job.
type Application struct {
	ID         int64             `json:"id" db:"id"`
	JobID      int64             `json:"serviceId" db:"service_id"`
	ProviderID int64             `json:"providerId" db:"provider_id"`
	Status     ApplicationStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt" db:"updated_at"`
}

// Message is an immutable entry in a job's thread.
type Message struct {
	ID          int64       `json:"id" db:"id"`
	JobID       int64       `json:"serviceId" db:"service_id"`
	SenderID    int64       `json:"senderId" db:"sender_id"`
	MessageType MessageType `json:"messageType" db:"message_type"`
	Content     string      `json:"content" db:"content"`
	Attachment  Document    `json:"attachment,omitempty" db:"attachment"`
	SentAt      time.Time   `json:"sentAt" db:"sent_at"`
}

// DefaultSubScore applies when a sub-score is omitted.
const DefaultSubScore = 5

// Rating is one side's evaluation of the other after completion.
type Rating struct {
	ID          int64     `json:"id" db:"id"`
	JobID       int64     `json:"serviceId" db:"service_id"`
	FromUserID  int64     `json:"fromUserId" db:"from_user_id"`
	ToUserID    int64     `json:"toUserId" db:"to_user_id"`
	FromRole    Role      `json:"fromRole" db:"from_role"`
	ToRole      Role      `json:"toRole" db:"to_role"`
	Score       int       `json:"score" db:"score"`
	Punctuality int       `json:"punctuality" db:"punctuality"`
	Quality     int       `json:"quality" db:"quality"`
	Compliance  int       `json:"compliance" db:"compliance"`
	Comment     string    `json:"comment" db:"comment"`
	IsLatest    bool      `json:"isLatest" db:"is_latest"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Reputation aggregates the latest ratings a user received.
type Reputation struct {
	UserID         int64   `json:"userId"`
	Count          int     `json:"count"`
	AvgScore       float64 `json:"avgScore"`
	AvgPunctuality float64 `json:"avgPunctuality"`
	AvgQuality     float64 `json:"avgQuality"`
	AvgCompliance  float64 `json:"avgCompliance"`
}
