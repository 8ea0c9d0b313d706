// Package directory abstracts the member/contact directory this service
// reads assignee names and phone numbers from. The directory itself is an
// external system; only the lookup surface is modeled here.
package directory

import "context"

// Contact is the minimal member projection the scale needs.
type Contact struct {
	ID    int64
	Name  string
	Phone string
}

// Directory resolves member identifiers to contact data. Implementations
// must be read-only from this service's point of view.
type Directory interface {
	// Lookup returns the contact for the member id, or ok=false when the
	// directory does not know the id. A missing contact is not an error:
	// scale entries keep working, only the denormalized fields stay empty.
	Lookup(ctx context.Context, memberID int64) (Contact, bool, error)
}

// Static is an in-memory Directory, used when no real directory backend is
// wired and throughout the tests.
type Static struct {
	contacts map[int64]Contact
}

// NewStatic builds a Static directory from the given contacts.
func NewStatic(contacts ...Contact) *Static {
	m := make(map[int64]Contact, len(contacts))
	for _, c := range contacts {
		m[c.ID] = c
	}
	return &Static{contacts: m}
}

func (s *Static) Lookup(_ context.Context, memberID int64) (Contact, bool, error) {
	c, ok := s.contacts[memberID]
	return c, ok, nil
}
