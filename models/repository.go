package models

import (
	"context"
	"slices"
	"time"
)

// Event is a scheduled community activity. RegisteredUsers is derived from the
// registrations table and never persisted with the document.
type Event struct {
	ID              string            `json:"_id" bson:"id"`
	Title           string            `json:"title" bson:"title" binding:"required"`
	Date            string            `json:"date" bson:"date" binding:"required"` // YYYY-MM-DD
	Time            string            `json:"time" bson:"time" binding:"required"` // HH:MM
	Location        string            `json:"location" bson:"location" binding:"required"`
	Description     string            `json:"description" bson:"description"`
	Metadata        map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	OrganizerID     string            `json:"organizerId" bson:"organizerId"`
	RegisteredUsers []string          `json:"registeredUsers" bson:"-"`
}

// HasRegistrant reports whether userID is in the event's registrant list.
func (e Event) HasRegistrant(userID string) bool {
	return userID != "" && slices.Contains(e.RegisteredUsers, userID)
}

// OrganizationRef is the owning organization as shown on an opportunity card.
type OrganizationRef struct {
	ID               string `json:"_id" bson:"id"`
	OrganizationName string `json:"organizationName" bson:"organizationName"`
}

// Opportunity is a volunteering engagement posted by an organization.
// Applicants is derived from the applications table.
type Opportunity struct {
	ID             string          `json:"_id" bson:"id"`
	Title          string          `json:"title" bson:"title" binding:"required"`
	Description    string          `json:"description" bson:"description" binding:"required"`
	Location       string          `json:"location" bson:"location" binding:"required"`
	StartDate      time.Time       `json:"startDate" bson:"startDate" binding:"required"`
	RequiredSkills []string        `json:"requiredSkills" bson:"requiredSkills"`
	Organization   OrganizationRef `json:"organizationId" bson:"organization"`
	Applicants     []string        `json:"applicants" bson:"-"`
}

func (o Opportunity) HasApplicant(userID string) bool {
	return userID != "" && slices.Contains(o.Applicants, userID)
}

// Application links an individual to an opportunity.
type Application struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	OpportunityID string    `json:"opportunityId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

const ApplicationPending = "pending"

// ===== Events =====
type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

// ===== Opportunities =====
type OpportunityRepository interface {
	GetAll(ctx context.Context) ([]Opportunity, error)
	GetByID(ctx context.Context, id string) (Opportunity, error)
	Create(ctx context.Context, o *Opportunity) error
}

// ===== Users =====
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	ValidateCredentials(ctx context.Context, email, plain string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// ===== Registrations =====
type RegistrationRepository interface {
	Register(ctx context.Context, userID, eventID string) error
	Cancel(ctx context.Context, userID, eventID string) error
	EventIDsByUser(ctx context.Context, userID string) ([]string, error)
	Registrants(ctx context.Context, eventID string) ([]string, error)
	// RegistrantsByEvent groups every registration by event id.
	RegistrantsByEvent(ctx context.Context) (map[string][]string, error)
}

// ===== Applications =====
type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Applicants(ctx context.Context, opportunityID string) ([]string, error)
	ApplicantsByOpportunity(ctx context.Context) (map[string][]string, error)
}
