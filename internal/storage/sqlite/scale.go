package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"escala/internal/models"
)

func scanScaleEntry(row interface{ Scan(...any) error }) (models.ServiceScaleEntry, error) {
	var e models.ServiceScaleEntry
	err := row.Scan(&e.ID, &e.EventID, &e.MemberID, &e.Role, &e.Confirmed,
		&e.Declined, &e.PublicToken, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// AddScaleEntry assigns a member to a role on an event. The entry starts
// pending and receives a fresh public token for the confirmation link.
func (s *Store) AddScaleEntry(ctx context.Context, churchID, eventID, memberID int64, role string) (models.ServiceScaleEntry, error) {
	if err := requireTenant(churchID); err != nil {
		return models.ServiceScaleEntry{}, err
	}
	if strings.TrimSpace(role) == "" {
		return models.ServiceScaleEntry{}, fmt.Errorf("role must not be empty: %w", ErrValidation)
	}
	if _, err := s.GetEvent(ctx, churchID, eventID); err != nil {
		return models.ServiceScaleEntry{}, err
	}

	token := uuid.NewString()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scale_entries(event_id, member_id, role, public_token) VALUES(?, ?, ?, ?)`,
		eventID, memberID, strings.TrimSpace(role), token)
	if err != nil {
		return models.ServiceScaleEntry{}, fmt.Errorf("insert scale entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.ServiceScaleEntry{}, fmt.Errorf("scale entry id: %w", err)
	}
	return s.GetScaleEntry(ctx, churchID, id)
}

// ScalePair is one (member, role) assignment in a bulk add.
type ScalePair struct {
	MemberID int64  `json:"member_id"`
	Role     string `json:"role"`
}

// ScaleEntryResult reports the outcome of one pair in a bulk add.
type ScaleEntryResult struct {
	MemberID int64                     `json:"member_id"`
	Role     string                    `json:"role"`
	Entry    *models.ServiceScaleEntry `json:"entry,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// AddScaleEntries applies each (member, role) pair independently. A failed
// pair is reported in its result and does not roll back the others.
func (s *Store) AddScaleEntries(ctx context.Context, churchID, eventID int64, pairs []ScalePair) []ScaleEntryResult {
	results := make([]ScaleEntryResult, 0, len(pairs))
	for _, p := range pairs {
		res := ScaleEntryResult{MemberID: p.MemberID, Role: p.Role}
		entry, err := s.AddScaleEntry(ctx, churchID, eventID, p.MemberID, p.Role)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Entry = &entry
		}
		results = append(results, res)
	}
	return results
}

// GetScaleEntry fetches one entry scoped to the tenant, with assignee
// contact data attached.
func (s *Store) GetScaleEntry(ctx context.Context, churchID, id int64) (models.ServiceScaleEntry, error) {
	if err := requireTenant(churchID); err != nil {
		return models.ServiceScaleEntry{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT sc.id, sc.event_id, sc.member_id, sc.role, sc.confirmed, sc.declined, sc.public_token, sc.created_at, sc.updated_at
		FROM scale_entries sc
		JOIN events e ON e.id = sc.event_id
		WHERE sc.id = ? AND e.church_id = ?`, id, churchID)
	entry, err := scanScaleEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceScaleEntry{}, fmt.Errorf("scale entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.ServiceScaleEntry{}, fmt.Errorf("get scale entry: %w", err)
	}
	s.attachContact(ctx, &entry)
	return entry, nil
}

// DeleteScaleEntry removes a single assignment.
func (s *Store) DeleteScaleEntry(ctx context.Context, churchID, id int64) error {
	if err := requireTenant(churchID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scale_entries
		WHERE id = ? AND event_id IN (SELECT id FROM events WHERE church_id = ?)`, id, churchID)
	if err != nil {
		return fmt.Errorf("delete scale entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("scale entry %d: %w", id, ErrNotFound)
	}
	return nil
}

func decisionFlags(d models.Decision) (confirmed, declined bool, err error) {
	switch d {
	case models.DecisionPending:
		return false, false, nil
	case models.DecisionConfirmed:
		return true, false, nil
	case models.DecisionDeclined:
		return false, true, nil
	}
	return false, false, fmt.Errorf("decision %q: %w", d, ErrValidation)
}

// SetDecision is the single authoritative transition for a scale entry's
// outcome. Both flags are written in one UPDATE so no reader ever observes
// confirmed and declined true together, even across retried requests. The
// transition is idempotent and reversible.
func (s *Store) SetDecision(ctx context.Context, churchID, id int64, d models.Decision) (models.ServiceScaleEntry, error) {
	if err := requireTenant(churchID); err != nil {
		return models.ServiceScaleEntry{}, err
	}
	confirmed, declined, err := decisionFlags(d)
	if err != nil {
		return models.ServiceScaleEntry{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE scale_entries SET confirmed = ?, declined = ?
		WHERE id = ? AND event_id IN (SELECT id FROM events WHERE church_id = ?)`,
		confirmed, declined, id, churchID)
	if err != nil {
		return models.ServiceScaleEntry{}, fmt.Errorf("set decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.ServiceScaleEntry{}, err
	}
	if affected == 0 {
		return models.ServiceScaleEntry{}, fmt.Errorf("scale entry %d: %w", id, ErrNotFound)
	}
	return s.GetScaleEntry(ctx, churchID, id)
}

// GetEntryByToken resolves a public confirmation token to the entry and
// its event. The token is the only credential; no tenant context applies.
func (s *Store) GetEntryByToken(ctx context.Context, token string) (models.ServiceScaleEntry, models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sc.id, sc.event_id, sc.member_id, sc.role, sc.confirmed, sc.declined, sc.public_token, sc.created_at, sc.updated_at
		FROM scale_entries sc WHERE sc.public_token = ?`, token)
	entry, err := scanScaleEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceScaleEntry{}, models.Event{}, fmt.Errorf("confirmation token: %w", ErrNotFound)
	}
	if err != nil {
		return models.ServiceScaleEntry{}, models.Event{}, fmt.Errorf("get entry by token: %w", err)
	}

	eventRow := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, entry.EventID)
	event, err := scanEvent(eventRow)
	if err != nil {
		return models.ServiceScaleEntry{}, models.Event{}, fmt.Errorf("event for token: %w", err)
	}

	s.attachContact(ctx, &entry)
	return entry, event, nil
}

// ApplyDecisionByToken applies the visitor's confirm/decline transition.
// Same atomic write as SetDecision, addressed by token instead of id.
func (s *Store) ApplyDecisionByToken(ctx context.Context, token string, accept bool) (models.ServiceScaleEntry, error) {
	d := models.DecisionDeclined
	if accept {
		d = models.DecisionConfirmed
	}
	confirmed, declined, _ := decisionFlags(d)

	res, err := s.db.ExecContext(ctx,
		`UPDATE scale_entries SET confirmed = ?, declined = ? WHERE public_token = ?`,
		confirmed, declined, token)
	if err != nil {
		return models.ServiceScaleEntry{}, fmt.Errorf("apply decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.ServiceScaleEntry{}, err
	}
	if affected == 0 {
		return models.ServiceScaleEntry{}, fmt.Errorf("confirmation token: %w", ErrNotFound)
	}

	entry, _, err := s.GetEntryByToken(ctx, token)
	return entry, err
}

func (s *Store) listScaleForChurch(ctx context.Context, churchID int64) ([]models.ServiceScaleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sc.id, sc.event_id, sc.member_id, sc.role, sc.confirmed, sc.declined, sc.public_token, sc.created_at, sc.updated_at
		FROM scale_entries sc
		JOIN events e ON e.id = sc.event_id
		WHERE e.church_id = ?
		ORDER BY sc.id`, churchID)
	if err != nil {
		return nil, fmt.Errorf("list scale entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ServiceScaleEntry
	for rows.Next() {
		entry, err := scanScaleEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scale entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		s.attachContact(ctx, &entries[i])
	}
	return entries, nil
}

// attachContact denormalizes assignee name and phone from the directory.
// A directory miss or failure leaves the fields empty; assignments render
// without contact data rather than failing the read.
func (s *Store) attachContact(ctx context.Context, entry *models.ServiceScaleEntry) {
	contact, ok, err := s.dir.Lookup(ctx, entry.MemberID)
	if err != nil {
		s.logger.Warn("directory lookup failed",
			"member_id", entry.MemberID, "error", err.Error())
		return
	}
	if !ok {
		return
	}
	entry.AssigneeName = contact.Name
	entry.AssigneePhone = contact.Phone
}
