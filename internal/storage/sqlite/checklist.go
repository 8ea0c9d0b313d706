package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"escala/internal/models"
)

func scanChecklistItem(row interface{ Scan(...any) error }) (models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := row.Scan(&item.ID, &item.EventID, &item.Task, &item.Completed,
		&item.CreatedAt, &item.UpdatedAt)
	return item, err
}

// AddChecklistItem attaches a task to an event. The task text must not be
// blank and the event must exist for the tenant.
func (s *Store) AddChecklistItem(ctx context.Context, churchID, eventID int64, task string) (models.ChecklistItem, error) {
	if err := requireTenant(churchID); err != nil {
		return models.ChecklistItem{}, err
	}
	if strings.TrimSpace(task) == "" {
		return models.ChecklistItem{}, fmt.Errorf("task must not be empty: %w", ErrValidation)
	}
	if _, err := s.GetEvent(ctx, churchID, eventID); err != nil {
		return models.ChecklistItem{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO checklist_items(event_id, task) VALUES(?, ?)`,
		eventID, strings.TrimSpace(task))
	if err != nil {
		return models.ChecklistItem{}, fmt.Errorf("insert checklist item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.ChecklistItem{}, fmt.Errorf("checklist item id: %w", err)
	}
	return s.getChecklistItem(ctx, churchID, id)
}

func (s *Store) getChecklistItem(ctx context.Context, churchID, id int64) (models.ChecklistItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT c.id, c.event_id, c.task, c.completed, c.created_at, c.updated_at
		FROM checklist_items c
		JOIN events e ON e.id = c.event_id
		WHERE c.id = ? AND e.church_id = ?`, id, churchID)
	item, err := scanChecklistItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChecklistItem{}, fmt.Errorf("checklist item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.ChecklistItem{}, fmt.Errorf("get checklist item: %w", err)
	}
	return item, nil
}

// SetChecklistDone sets completed to exactly the caller-supplied target.
// Repeating the call with the same target is a no-op.
func (s *Store) SetChecklistDone(ctx context.Context, churchID, id int64, done bool) (models.ChecklistItem, error) {
	if err := requireTenant(churchID); err != nil {
		return models.ChecklistItem{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE checklist_items SET completed = ?
		WHERE id = ? AND event_id IN (SELECT id FROM events WHERE church_id = ?)`,
		done, id, churchID)
	if err != nil {
		return models.ChecklistItem{}, fmt.Errorf("toggle checklist item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.ChecklistItem{}, err
	}
	if affected == 0 {
		return models.ChecklistItem{}, fmt.Errorf("checklist item %d: %w", id, ErrNotFound)
	}
	return s.getChecklistItem(ctx, churchID, id)
}

// DeleteChecklistItem removes a single task.
func (s *Store) DeleteChecklistItem(ctx context.Context, churchID, id int64) error {
	if err := requireTenant(churchID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM checklist_items
		WHERE id = ? AND event_id IN (SELECT id FROM events WHERE church_id = ?)`, id, churchID)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("checklist item %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) listChecklistForChurch(ctx context.Context, churchID int64) ([]models.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.event_id, c.task, c.completed, c.created_at, c.updated_at
		FROM checklist_items c
		JOIN events e ON e.id = c.event_id
		WHERE e.church_id = ?
		ORDER BY c.id`, churchID)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []models.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
