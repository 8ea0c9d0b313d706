package models

import "time"

// Event is a scheduled church activity: a service, a meeting, a special
// gathering. Status is operator-managed and never changes from schedule
// logic alone.
type Event struct {
	ID          int64     `json:"id"`
	ChurchID    int64     `json:"church_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	LeaderID    *int64    `json:"leader_id,omitempty"`
	Status      string    `json:"status"`
	Estimated   *int64    `json:"estimated_attendees,omitempty"`
	Actual      *int64    `json:"actual_attendees,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Checklist []ChecklistItem     `json:"checklist"`
	Scale     []ServiceScaleEntry `json:"scale"`
}

// ChecklistItem is one operational task attached to an event.
type ChecklistItem struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceScaleEntry assigns one person to one role for one event. The
// pending/confirmed/declined outcome is encoded as two booleans that are
// never both true. PublicToken is the shareable confirmation capability;
// the integer ID never leaves the authenticated surface.
type ServiceScaleEntry struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	MemberID    int64     `json:"member_id"`
	Role        string    `json:"role"`
	Confirmed   bool      `json:"confirmed"`
	Declined    bool      `json:"declined"`
	PublicToken string    `json:"public_token"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AssigneeName  string `json:"assignee_name,omitempty"`
	AssigneePhone string `json:"assignee_phone,omitempty"`
}

// Decision is the tri-state outcome of a scale entry.
type Decision string

const (
	DecisionPending   Decision = "pending"
	DecisionConfirmed Decision = "confirmed"
	DecisionDeclined  Decision = "declined"
)

// Outcome derives the logical state from the two stored flags.
func (e ServiceScaleEntry) Outcome() Decision {
	switch {
	case e.Confirmed:
		return DecisionConfirmed
	case e.Declined:
		return DecisionDeclined
	default:
		return DecisionPending
	}
}

// RoleGuest marks an invited visitor rather than a serving position; the
// messaging composer selects the invitation wording for it.
const RoleGuest = "Guest"

// ValidEventTypes enumerates the event categories supported by the agenda.
var ValidEventTypes = map[string]struct{}{
	"service":   {},
	"gathering": {},
	"meeting":   {},
	"special":   {},
	"rehearsal": {},
}

// ValidEventStatuses enumerates the operator-managed lifecycle states.
var ValidEventStatuses = map[string]struct{}{
	"planned":   {},
	"confirmed": {},
	"held":      {},
	"canceled":  {},
}
