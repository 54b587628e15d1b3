package todo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tasklist/internal/models"
	"tasklist/internal/persist"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupService creates a task store over a fresh file-backed document store
func setupService(t *testing.T) (Service, persist.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	docs := persist.NewFileStore(t.TempDir())
	if err := docs.Ensure(ctx); err != nil {
		t.Fatalf("Failed to ensure document store: %v", err)
	}
	return NewService(ctx, docs), docs
}

func due(t *testing.T, days int) *time.Time {
	t.Helper()
	d := time.Now().Add(time.Duration(days) * 24 * time.Hour).UTC().Truncate(time.Second)
	return &d
}

// ============================================================================
// IDENTIFIER ASSIGNMENT
// ============================================================================

func TestAdd_AssignsPositiveUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "t"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if added.ID <= 0 {
			t.Errorf("Expected positive id, got %d", added.ID)
		}
		if seen[added.ID] {
			t.Errorf("Duplicate id %d", added.ID)
		}
		seen[added.ID] = true
	}
}

func TestAdd_IDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	var last models.Task
	for i := 0; i < 3; i++ {
		var err error
		last, err = svc.Add(ctx, models.Task{UserID: 1, Title: "t"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := svc.Delete(ctx, last.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	next, err := svc.Add(ctx, models.Task{UserID: 1, Title: "t"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if next.ID <= last.ID {
		t.Errorf("Expected id > %d after delete, got %d", last.ID, next.ID)
	}
}

func TestAdd_DefaultCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "t"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.Category != models.DefaultCategory {
		t.Errorf("Expected category %q, got %q", models.DefaultCategory, added.Category)
	}

	kept, err := svc.Add(ctx, models.Task{UserID: 1, Title: "t", Category: "Work"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if kept.Category != "Work" {
		t.Errorf("Expected category to be kept, got %q", kept.Category)
	}
}

// ============================================================================
// PER-USER ORDERING
// ============================================================================

func TestGetForUser_OrdersByDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	add := func(item models.Task) {
		t.Helper()
		if _, err := svc.Add(ctx, item); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	add(models.Task{UserID: 7, Title: "later", DueDate: due(t, 2)})
	add(models.Task{UserID: 7, Title: "sooner", DueDate: due(t, 1)})
	add(models.Task{UserID: 9, Title: "other"})

	got := svc.GetForUser(7)
	if len(got) != 2 {
		t.Fatalf("Expected 2 tasks for user 7, got %d", len(got))
	}
	if got[0].Title != "sooner" || got[1].Title != "later" {
		t.Errorf("Expected [sooner later], got [%s %s]", got[0].Title, got[1].Title)
	}
}

func TestGetForUser_NilDueDatesSortLast(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	add := func(item models.Task) {
		t.Helper()
		if _, err := svc.Add(ctx, item); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	add(models.Task{UserID: 1, Title: "no due a"})
	add(models.Task{UserID: 1, Title: "dated", DueDate: due(t, 1)})
	add(models.Task{UserID: 1, Title: "no due b"})

	got := svc.GetForUser(1)
	want := []string{"dated", "no due a", "no due b"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d tasks, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

func TestGetForUser_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	same := due(t, 1)
	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: title, DueDate: same}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got := svc.GetForUser(1)
	for i, title := range []string{"first", "second", "third"} {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

// ============================================================================
// UPDATE / DELETE
// ============================================================================

func TestUpdate_ReplacesMutableFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "before"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	added.Title = "after"
	added.Category = "Errands"
	added.Priority = models.PriorityHigh
	added.IsCompleted = true
	added.DueDate = due(t, 3)
	if err := svc.Update(ctx, added); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got := svc.GetForUser(1)
	if len(got) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(got))
	}
	if got[0].Title != "after" || got[0].Category != "Errands" ||
		got[0].Priority != models.PriorityHigh || !got[0].IsCompleted || got[0].DueDate == nil {
		t.Errorf("Update did not replace fields: %+v", got[0])
	}
}

func TestUpdate_UnknownID_NoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: "keep"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := svc.Update(ctx, models.Task{ID: 999, Title: "ghost"}); err != nil {
		t.Errorf("Update of unknown id should not error, got %v", err)
	}
	if got := svc.GetForUser(1); len(got) != 1 || got[0].Title != "keep" {
		t.Errorf("Store changed by no-op update: %+v", got)
	}
}

func TestDelete_UnknownID_NoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: "keep"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := svc.Delete(ctx, 999); err != nil {
		t.Errorf("Delete of unknown id should not error, got %v", err)
	}
	if got := svc.GetForUser(1); len(got) != 1 {
		t.Errorf("Expected 1 surviving task, got %d", len(got))
	}
}

func TestDelete_RemovesOnlyMatching(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	a, _ := svc.Add(ctx, models.Task{UserID: 1, Title: "a"})
	b, _ := svc.Add(ctx, models.Task{UserID: 1, Title: "b"})

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got := svc.GetForUser(1)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("Expected only task %d to survive, got %+v", b.ID, got)
	}
}

// ============================================================================
// PERSISTENCE AND RELOAD
// ============================================================================

func TestSnapshot_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	svc, docs := setupService(t)

	added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "persisted", Priority: models.PriorityMedium})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A second store over the same documents sees the snapshot
	restarted := NewService(ctx, docs)
	got := restarted.GetForUser(1)
	if len(got) != 1 || got[0].Title != "persisted" || got[0].ID != added.ID {
		t.Fatalf("Restarted store state wrong: %+v", got)
	}
	if got[0].Priority != models.PriorityMedium {
		t.Errorf("Priority not restored, got %v", got[0].Priority)
	}

	// The counter continues past persisted ids
	next, err := restarted.Add(ctx, models.Task{UserID: 1, Title: "next"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if next.ID <= added.ID {
		t.Errorf("Expected id > %d after reload, got %d", added.ID, next.ID)
	}
}

func TestReload_PicksUpExternalChanges(t *testing.T) {
	ctx := context.Background()
	svc, docs := setupService(t)

	if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: "mine"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Another writer replaces the snapshot behind our back
	other := NewService(ctx, docs)
	if _, err := other.Add(ctx, models.Task{UserID: 1, Title: "theirs"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var notified atomic.Int64
	svc.Subscribe(func() error { notified.Add(1); return nil })

	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if notified.Load() != 1 {
		t.Errorf("Reload should notify exactly once, got %d", notified.Load())
	}

	titles := map[string]bool{}
	for _, item := range svc.GetAll() {
		titles[item.Title] = true
	}
	if !titles["theirs"] {
		t.Errorf("Reload did not pick up external snapshot: %v", titles)
	}
}

func TestLoad_MalformedSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	docs := persist.NewFileStore(t.TempDir())
	if err := docs.Ensure(ctx); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := docs.Write(ctx, persist.TasksDocument, []byte("{not json")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	svc := NewService(ctx, docs)
	if got := svc.GetAll(); len(got) != 0 {
		t.Errorf("Expected empty store, got %d tasks", len(got))
	}

	// And the store is usable afterwards
	added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "fresh"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID != 1 {
		t.Errorf("Expected first id 1, got %d", added.ID)
	}
}

func TestLoad_SchemaRejectedSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	docs := persist.NewFileStore(t.TempDir())
	if err := docs.Ensure(ctx); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	// Valid JSON, wrong shape
	if err := docs.Write(ctx, persist.TasksDocument, []byte(`[{"Id":"one"}]`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	svc := NewService(ctx, docs)
	if got := svc.GetAll(); len(got) != 0 {
		t.Errorf("Expected empty store, got %d tasks", len(got))
	}
}

// ============================================================================
// NOTIFICATIONS
// ============================================================================

func TestMutations_NotifyEverySubscriberOncePerMutation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	var healthy, failing atomic.Int64
	svc.Subscribe(func() error { healthy.Add(1); return nil })
	svc.Subscribe(func() error { failing.Add(1); return errors.New("subscriber broken") })

	added, err := svc.Add(ctx, models.Task{UserID: 1, Title: "t"})
	if err == nil {
		t.Error("Expected subscriber failure to surface from Add")
	}
	if err := svc.Update(ctx, added); err == nil {
		t.Error("Expected subscriber failure to surface from Update")
	}
	if err := svc.Delete(ctx, added.ID); err == nil {
		t.Error("Expected subscriber failure to surface from Delete")
	}

	// 3 mutations, 2 subscribers: each invoked exactly 3 times
	if healthy.Load() != 3 || failing.Load() != 3 {
		t.Errorf("Expected 3 invocations each, got %d and %d", healthy.Load(), failing.Load())
	}
}

func TestNoopMutations_DoNotNotify(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	var count atomic.Int64
	svc.Subscribe(func() error { count.Add(1); return nil })

	if err := svc.Update(ctx, models.Task{ID: 999}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := svc.Delete(ctx, 999); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if count.Load() != 0 {
		t.Errorf("No-op mutations should not notify, got %d invocations", count.Load())
	}
}

func TestUnsubscribe_StopsNotifications(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	var count atomic.Int64
	id := svc.Subscribe(func() error { count.Add(1); return nil })

	if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: "a"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	svc.Unsubscribe(id)
	if _, err := svc.Add(ctx, models.Task{UserID: 1, Title: "b"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if count.Load() != 1 {
		t.Errorf("Expected 1 invocation after unsubscribe, got %d", count.Load())
	}
}
