package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"escala/internal/models"
)

// EventInput carries the operator-supplied fields for a new event.
type EventInput struct {
	Title       string
	Type        string
	Date        string
	Time        string
	Location    string
	Description string
	LeaderID    *int64
	Estimated   *int64
}

const eventColumns = `id, church_id, title, type, date, time, location, description,
	leader_id, status, estimated_attendees, actual_attendees, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.ChurchID, &e.Title, &e.Type, &e.Date, &e.Time,
		&e.Location, &e.Description, &e.LeaderID, &e.Status,
		&e.Estimated, &e.Actual, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateEvent persists a new event for the tenant. Status starts as
// "planned"; it only ever changes through SetEventStatus.
func (s *Store) CreateEvent(ctx context.Context, churchID int64, in EventInput) (models.Event, error) {
	if err := requireTenant(churchID); err != nil {
		return models.Event{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Event{}, fmt.Errorf("event title must not be empty: %w", ErrValidation)
	}
	if _, ok := models.ValidEventTypes[in.Type]; !ok {
		in.Type = "service"
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return models.Event{}, fmt.Errorf("event date %q: %w", in.Date, ErrValidation)
	}
	if in.Estimated != nil && *in.Estimated < 0 {
		return models.Event{}, fmt.Errorf("estimated attendees must not be negative: %w", ErrValidation)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO events(church_id, title, type, date, time, location, description, leader_id, estimated_attendees)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		churchID, strings.TrimSpace(in.Title), in.Type, in.Date, in.Time,
		strings.TrimSpace(in.Location), strings.TrimSpace(in.Description), in.LeaderID, in.Estimated)
	if err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Event{}, fmt.Errorf("event id: %w", err)
	}
	return s.GetEvent(ctx, churchID, id)
}

// GetEvent fetches a single event scoped to the tenant.
func (s *Store) GetEvent(ctx context.Context, churchID, id int64) (models.Event, error) {
	if err := requireTenant(churchID); err != nil {
		return models.Event{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND church_id = ?`, id, churchID)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEventsWithDetail returns the tenant's events ordered by date, each
// populated with its checklist items and scale entries. Assignee name and
// phone come from the directory collaborator.
func (s *Store) ListEventsWithDetail(ctx context.Context, churchID int64) ([]models.Event, error) {
	if err := requireTenant(churchID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE church_id = ? ORDER BY date, time, id`, churchID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	byID := map[int64]int{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Checklist = []models.ChecklistItem{}
		e.Scale = []models.ServiceScaleEntry{}
		byID[e.ID] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	items, err := s.listChecklistForChurch(ctx, churchID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if i, ok := byID[item.EventID]; ok {
			events[i].Checklist = append(events[i].Checklist, item)
		}
	}

	entries, err := s.listScaleForChurch(ctx, churchID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if i, ok := byID[entry.EventID]; ok {
			events[i].Scale = append(events[i].Scale, entry)
		}
	}

	return events, nil
}

// SetEventStatus applies an operator-managed status change.
func (s *Store) SetEventStatus(ctx context.Context, churchID, id int64, status string) (models.Event, error) {
	if err := requireTenant(churchID); err != nil {
		return models.Event{}, err
	}
	if _, ok := models.ValidEventStatuses[status]; !ok {
		return models.Event{}, fmt.Errorf("event status %q: %w", status, ErrValidation)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET status = ? WHERE id = ? AND church_id = ?`, status, id, churchID)
	if err != nil {
		return models.Event{}, fmt.Errorf("update event status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Event{}, err
	}
	if affected == 0 {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return s.GetEvent(ctx, churchID, id)
}

// SetEventAttendance records estimated and actual attendee counts.
func (s *Store) SetEventAttendance(ctx context.Context, churchID, id int64, estimated, actual *int64) (models.Event, error) {
	if err := requireTenant(churchID); err != nil {
		return models.Event{}, err
	}
	if (estimated != nil && *estimated < 0) || (actual != nil && *actual < 0) {
		return models.Event{}, fmt.Errorf("attendee counts must not be negative: %w", ErrValidation)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET estimated_attendees = COALESCE(?, estimated_attendees),
			actual_attendees = COALESCE(?, actual_attendees)
		WHERE id = ? AND church_id = ?`, estimated, actual, id, churchID)
	if err != nil {
		return models.Event{}, fmt.Errorf("update event attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Event{}, err
	}
	if affected == 0 {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return s.GetEvent(ctx, churchID, id)
}

// DeleteEvent removes an event along with its checklist items and scale
// entries (foreign keys cascade).
func (s *Store) DeleteEvent(ctx context.Context, churchID, id int64) error {
	if err := requireTenant(churchID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND church_id = ?`, id, churchID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}
