// Package todo implements the task store: the authoritative in-memory
// task collection for all users, persisted as a whole snapshot on every
// mutation.
package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"tasklist/internal/models"
	"tasklist/internal/notify"
	"tasklist/internal/persist"
)

// Service defines all task-related operations.
//
// The store contains no internal locking: mutating operations must be
// serialized by the caller (the TUI event loop is the single writer).
type Service interface {
	// Read operations
	GetAll() []models.Task
	GetForUser(userID int) []models.Task

	// Write operations
	Add(ctx context.Context, item models.Task) (models.Task, error)
	Update(ctx context.Context, item models.Task) error
	Delete(ctx context.Context, id int) error

	// Reload discards in-memory state and re-reads the persisted
	// snapshot, notifying subscribers once afterwards.
	Reload(ctx context.Context) error

	// Change subscription
	Subscribe(cb notify.Callback) int
	Unsubscribe(id int)
}

// service implements Service interface
type service struct {
	docs     persist.DocumentStore
	notifier *notify.Notifier

	tasks  []models.Task
	nextID int
}

// NewService creates a task store backed by docs and loads the persisted
// snapshot. A missing, unreadable or malformed snapshot is logged and the
// store starts empty.
func NewService(ctx context.Context, docs persist.DocumentStore) Service {
	s := &service{
		docs:     docs,
		notifier: notify.NewNotifier(),
		nextID:   1,
	}
	s.load(ctx)
	return s
}

// GetAll returns a copy of every task, in no particular order.
func (s *service) GetAll() []models.Task {
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// GetForUser returns the user's tasks ordered ascending by due date.
// Tasks without a due date sort last; ties keep insertion order.
func (s *service) GetForUser(userID int) []models.Task {
	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}

// Add appends a task, assigning the next identifier when the item
// carries none. Identifiers are monotonic and never reused. The returned
// error carries snapshot-write and subscriber failures; the task is in
// the store either way.
func (s *service) Add(ctx context.Context, item models.Task) (models.Task, error) {
	if item.ID == 0 {
		item.ID = s.nextID
	}
	if item.ID >= s.nextID {
		s.nextID = item.ID + 1
	}
	if item.Category == "" {
		item.Category = models.DefaultCategory
	}

	s.tasks = append(s.tasks, item.Clone())
	return item, s.commit(ctx)
}

// Update replaces the mutable fields of the task matching item's
// identifier. An unknown identifier is a no-op, not an error.
func (s *service) Update(ctx context.Context, item models.Task) error {
	for i := range s.tasks {
		if s.tasks[i].ID == item.ID {
			s.tasks[i].Title = item.Title
			s.tasks[i].Category = item.Category
			s.tasks[i].Priority = item.Priority
			s.tasks[i].IsCompleted = item.IsCompleted
			if item.DueDate != nil {
				due := *item.DueDate
				s.tasks[i].DueDate = &due
			} else {
				s.tasks[i].DueDate = nil
			}
			return s.commit(ctx)
		}
	}
	return nil
}

// Delete removes the task with the given identifier.
// An unknown identifier is a no-op, not an error.
func (s *service) Delete(ctx context.Context, id int) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.commit(ctx)
		}
	}
	return nil
}

// Reload discards the in-memory collection and re-reads the snapshot.
func (s *service) Reload(ctx context.Context) error {
	s.tasks = nil
	s.nextID = 1
	s.load(ctx)

	if err := s.notifier.Notify(); err != nil {
		return fmt.Errorf("notify subscribers: %w", err)
	}
	return nil
}

// Subscribe registers a change callback.
func (s *service) Subscribe(cb notify.Callback) int {
	return s.notifier.Subscribe(cb)
}

// Unsubscribe removes a change callback.
func (s *service) Unsubscribe(id int) {
	s.notifier.Unsubscribe(id)
}

// commit persists the whole collection and notifies subscribers. A write
// failure is logged and reported but the in-memory state stays
// authoritative; the on-disk snapshot catches up on the next save.
func (s *service) commit(ctx context.Context) error {
	var errs []error

	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		errs = append(errs, fmt.Errorf("encode snapshot: %w", err))
	} else if err := s.docs.Write(ctx, persist.TasksDocument, data); err != nil {
		slog.Error("task snapshot write failed, in-memory state retained",
			"document", persist.TasksDocument, "error", err)
		errs = append(errs, fmt.Errorf("write snapshot: %w", err))
	}

	if err := s.notifier.Notify(); err != nil {
		errs = append(errs, fmt.Errorf("notify subscribers: %w", err))
	}

	return errors.Join(errs...)
}

// load reads the persisted snapshot into memory and seeds the identifier
// counter past the highest persisted id. All failures are non-fatal.
func (s *service) load(ctx context.Context) {
	data, err := s.docs.Read(ctx, persist.TasksDocument)
	if errors.Is(err, persist.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("task snapshot read failed, starting empty",
			"document", persist.TasksDocument, "error", err)
		return
	}

	if err := persist.ValidateTasks(data); err != nil {
		slog.Warn("task snapshot malformed, starting empty",
			"document", persist.TasksDocument, "error", err)
		return
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		slog.Warn("task snapshot malformed, starting empty",
			"document", persist.TasksDocument, "error", err)
		return
	}

	s.tasks = tasks
	for _, t := range tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
}
