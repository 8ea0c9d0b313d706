package sqlite

import (
	"context"
	"errors"
	"testing"

	"escala/internal/directory"
	"escala/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := directory.NewStatic(
		directory.Contact{ID: 1, Name: "Ana Souza", Phone: "(91) 99383-7093"},
		directory.Contact{ID: 2, Name: "Bruno Lima", Phone: "5591988887777"},
	)
	store, err := Open(":memory:", dir, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustCreateEvent(t *testing.T, store *Store, churchID int64) models.Event {
	t.Helper()
	event, err := store.CreateEvent(context.Background(), churchID, EventInput{
		Title: "Sunday Service",
		Type:  "service",
		Date:  "2024-05-12",
		Time:  "19:00",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func TestCreateEventDefaults(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	if event.Status != "planned" {
		t.Fatalf("expected status 'planned', got %q", event.Status)
	}
	if event.ChurchID != 1 {
		t.Fatalf("expected church 1, got %d", event.ChurchID)
	}
}

func TestCreateEventRejectsMissingTenant(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateEvent(context.Background(), 0, EventInput{Title: "x", Date: "2024-01-01"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing tenant, got %v", err)
	}
}

func TestCreateEventRejectsBadDate(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateEvent(context.Background(), 1, EventInput{Title: "x", Date: "12/05/2024"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	if _, err := store.GetEvent(context.Background(), 2, event.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found across tenants, got %v", err)
	}

	events, err := store.ListEventsWithDetail(context.Background(), 2)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events for other tenant, got %d", len(events))
	}
}

func TestChecklistRequiresEventAndTask(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	if _, err := store.AddChecklistItem(context.Background(), 1, event.ID, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank task, got %v", err)
	}
	if _, err := store.AddChecklistItem(context.Background(), 1, 999, "Check microphones"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing event, got %v", err)
	}
}

func TestChecklistToggleIdempotent(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	item, err := store.AddChecklistItem(context.Background(), 1, event.ID, "Check microphones")
	if err != nil {
		t.Fatalf("add checklist item: %v", err)
	}
	if item.Completed {
		t.Fatalf("expected new item to start incomplete")
	}

	for i := 0; i < 2; i++ {
		item, err = store.SetChecklistDone(context.Background(), 1, item.ID, true)
		if err != nil {
			t.Fatalf("toggle true: %v", err)
		}
		if !item.Completed {
			t.Fatalf("expected completed=true after toggle %d", i+1)
		}
	}

	item, err = store.SetChecklistDone(context.Background(), 1, item.ID, false)
	if err != nil {
		t.Fatalf("toggle false: %v", err)
	}
	if item.Completed {
		t.Fatalf("expected completed=false, final state follows last call")
	}
}

func TestAddScaleEntryRejectsBlankRole(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	if _, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank role, got %v", err)
	}
}

func TestScaleEntryStartsPendingWithToken(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	entry, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "Sound")
	if err != nil {
		t.Fatalf("add scale entry: %v", err)
	}
	if entry.Outcome() != models.DecisionPending {
		t.Fatalf("expected pending, got %s", entry.Outcome())
	}
	if entry.PublicToken == "" {
		t.Fatalf("expected a public token")
	}
	if entry.AssigneeName != "Ana Souza" {
		t.Fatalf("expected denormalized assignee name, got %q", entry.AssigneeName)
	}
	if entry.AssigneePhone == "" {
		t.Fatalf("expected denormalized assignee phone")
	}
}

func TestDecisionIdempotentAndReversible(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)
	entry, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "Sound")
	if err != nil {
		t.Fatalf("add scale entry: %v", err)
	}

	assertOutcome := func(e models.ServiceScaleEntry, want models.Decision) {
		t.Helper()
		if e.Confirmed && e.Declined {
			t.Fatalf("invariant violated: confirmed and declined both true")
		}
		if e.Outcome() != want {
			t.Fatalf("expected %s, got %s", want, e.Outcome())
		}
	}

	e, err := store.ApplyDecisionByToken(context.Background(), entry.PublicToken, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	assertOutcome(e, models.DecisionConfirmed)

	// Same decision again: no-op, never back to pending.
	e, err = store.ApplyDecisionByToken(context.Background(), entry.PublicToken, true)
	if err != nil {
		t.Fatalf("accept again: %v", err)
	}
	assertOutcome(e, models.DecisionConfirmed)

	// Opposite decision flips, never leaves both flags set.
	e, err = store.ApplyDecisionByToken(context.Background(), entry.PublicToken, false)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	assertOutcome(e, models.DecisionDeclined)

	e, err = store.ApplyDecisionByToken(context.Background(), entry.PublicToken, true)
	if err != nil {
		t.Fatalf("re-accept: %v", err)
	}
	assertOutcome(e, models.DecisionConfirmed)
}

func TestApplyDecisionUnknownToken(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.ApplyDecisionByToken(context.Background(), "no-such-token", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := store.GetEntryByToken(context.Background(), "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOperatorDecisionSharesTransition(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)
	entry, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "Sound")
	if err != nil {
		t.Fatalf("add scale entry: %v", err)
	}

	// Visitor declines, then the operator confirms: the declined flag must
	// be cleared by the shared transition.
	if _, err := store.ApplyDecisionByToken(context.Background(), entry.PublicToken, false); err != nil {
		t.Fatalf("decline: %v", err)
	}
	e, err := store.SetDecision(context.Background(), 1, entry.ID, models.DecisionConfirmed)
	if err != nil {
		t.Fatalf("operator confirm: %v", err)
	}
	if !e.Confirmed || e.Declined {
		t.Fatalf("expected confirmed without declined, got confirmed=%v declined=%v", e.Confirmed, e.Declined)
	}

	// Operator can reset to pending.
	e, err = store.SetDecision(context.Background(), 1, entry.ID, models.DecisionPending)
	if err != nil {
		t.Fatalf("operator reset: %v", err)
	}
	if e.Outcome() != models.DecisionPending {
		t.Fatalf("expected pending after reset, got %s", e.Outcome())
	}
}

func TestBulkAddReportsPerItem(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	results := store.AddScaleEntries(context.Background(), 1, event.ID, []ScalePair{
		{MemberID: 1, Role: "Sound"},
		{MemberID: 2, Role: ""},
		{MemberID: 2, Role: models.RoleGuest},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" || results[0].Entry == nil {
		t.Fatalf("expected first pair to succeed: %+v", results[0])
	}
	if results[1].Error == "" {
		t.Fatalf("expected blank role pair to fail")
	}
	if results[2].Error != "" || results[2].Entry == nil {
		t.Fatalf("expected guest pair to succeed despite earlier failure: %+v", results[2])
	}
}

func TestDeleteEventCascades(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	item, err := store.AddChecklistItem(context.Background(), 1, event.ID, "Set up chairs")
	if err != nil {
		t.Fatalf("add checklist item: %v", err)
	}
	entry, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "Sound")
	if err != nil {
		t.Fatalf("add scale entry: %v", err)
	}

	if err := store.DeleteEvent(context.Background(), 1, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	if _, err := store.SetChecklistDone(context.Background(), 1, item.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected checklist item gone, got %v", err)
	}
	if _, _, err := store.GetEntryByToken(context.Background(), entry.PublicToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected scale entry gone, got %v", err)
	}
}

func TestListEventsWithDetail(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	if _, err := store.AddChecklistItem(context.Background(), 1, event.ID, "Check microphones"); err != nil {
		t.Fatalf("add checklist item: %v", err)
	}
	if _, err := store.AddScaleEntry(context.Background(), 1, event.ID, 1, "Sound"); err != nil {
		t.Fatalf("add scale entry: %v", err)
	}

	events, err := store.ListEventsWithDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(events[0].Checklist) != 1 {
		t.Fatalf("expected 1 checklist item, got %d", len(events[0].Checklist))
	}
	if len(events[0].Scale) != 1 {
		t.Fatalf("expected 1 scale entry, got %d", len(events[0].Scale))
	}
	if events[0].Scale[0].AssigneeName != "Ana Souza" {
		t.Fatalf("expected denormalized name, got %q", events[0].Scale[0].AssigneeName)
	}
}

func TestSetEventStatus(t *testing.T) {
	store := newTestStore(t)
	event := mustCreateEvent(t, store, 1)

	updated, err := store.SetEventStatus(context.Background(), 1, event.ID, "held")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != "held" {
		t.Fatalf("expected 'held', got %q", updated.Status)
	}

	if _, err := store.SetEventStatus(context.Background(), 1, event.ID, "bogus"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
