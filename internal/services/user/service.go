// Package user implements the account store: accounts with role-derived
// capabilities, a single current session, and the standing invariant
// that at least one Admin account always exists.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tasklist/internal/models"
	"tasklist/internal/notify"
	"tasklist/internal/persist"
)

const (
	// BootstrapAdminUsername is the well-known username synthesized when
	// no Admin account exists. A session under this username is treated
	// as Admin even if its role field is inconsistent (legacy fallback).
	BootstrapAdminUsername = "admin"

	defaultAdminPassword = "123"
)

// Service defines all account-related operations.
//
// Validation and invariant failures are reported through the boolean
// result; the error carries snapshot-write and subscriber failures.
// Like the task store, mutating operations must be serialized by the
// caller.
type Service interface {
	// Account creation
	Register(ctx context.Context, username, password string) (bool, error)
	CreateUser(ctx context.Context, username, password, role string) (bool, error)

	// Account mutation
	ResetPassword(ctx context.Context, id int, newPassword string) (bool, error)
	UpdateUser(ctx context.Context, updated models.User) (bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)

	// Session
	Login(ctx context.Context, username, password string) (bool, error)
	Logout(ctx context.Context) error
	IsLoggedIn() bool
	GetCurrentUser() *models.User
	IsAdmin() bool
	IsUser() bool

	// Queries
	GetAllUsers() []models.User

	// EnsureAdminExists synthesizes the bootstrap Admin account when no
	// account carries the Admin capability. It runs at construction and
	// is idempotent.
	EnsureAdminExists(ctx context.Context) error

	// Change subscription
	Subscribe(cb notify.Callback) int
	Unsubscribe(id int)
}

// service implements Service interface
type service struct {
	docs     persist.DocumentStore
	notifier *notify.Notifier

	users  []models.User
	nextID int

	// currentID is the id of the logged-in account, 0 when logged out.
	currentID int
}

// NewService creates an account store backed by docs, loads the
// persisted snapshot and guarantees the Admin invariant. Load failures
// are logged and leave the store empty before bootstrap.
func NewService(ctx context.Context, docs persist.DocumentStore) Service {
	s := &service{
		docs:     docs,
		notifier: notify.NewNotifier(),
		nextID:   1,
	}
	s.load(ctx)
	if err := s.EnsureAdminExists(ctx); err != nil {
		slog.Error("bootstrap admin persistence failed", "error", err)
	}
	return s
}

// Register creates a User-role account. It rejects blank inputs and
// usernames that already exist under case-insensitive comparison.
func (s *service) Register(ctx context.Context, username, password string) (bool, error) {
	return s.create(ctx, username, password, models.RoleUser)
}

// CreateUser creates an account with an explicit role. Blank or
// unrecognized roles normalize to User.
func (s *service) CreateUser(ctx context.Context, username, password, role string) (bool, error) {
	return s.create(ctx, username, password, models.ParseRole(role))
}

func (s *service) create(ctx context.Context, username, password string, role models.Role) (bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return false, nil
	}
	if s.findByUsername(username) != nil {
		return false, nil
	}

	s.users = append(s.users, models.User{
		ID:       s.nextID,
		Username: username,
		Password: password,
		Role:     role,
	})
	s.nextID++

	return true, s.commit(ctx)
}

// ResetPassword overwrites the account's password. Blank passwords and
// unknown ids are rejected.
func (s *service) ResetPassword(ctx context.Context, id int, newPassword string) (bool, error) {
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return false, nil
	}

	u := s.findByID(id)
	if u == nil {
		return false, nil
	}
	u.Password = newPassword

	return true, s.commit(ctx)
}

// UpdateUser replaces the stored account matching updated's identifier,
// preserving its embedded task list. It fails when the new username
// collides with a different account or when the update would demote the
// sole remaining Admin.
func (s *service) UpdateUser(ctx context.Context, updated models.User) (bool, error) {
	idx := -1
	for i := range s.users {
		if s.users[i].ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	for i := range s.users {
		if s.users[i].ID != updated.ID &&
			strings.EqualFold(s.users[i].Username, updated.Username) {
			return false, nil
		}
	}

	if s.isLastAdmin(updated.ID) && !updated.Role.Capabilities().Admin {
		return false, nil
	}

	replacement := updated.Clone()
	replacement.Tasks = s.users[idx].Tasks
	s.users[idx] = replacement

	return true, s.commit(ctx)
}

// DeleteUser removes the account. It fails for the currently logged-in
// account and for the sole remaining Admin.
func (s *service) DeleteUser(ctx context.Context, id int) (bool, error) {
	if s.currentID == id {
		return false, nil
	}
	if s.isLastAdmin(id) {
		return false, nil
	}

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true, s.commit(ctx)
		}
	}
	return false, nil
}

// Login matches the username case-insensitively and the password exactly
// (both trimmed). On success the account becomes the current session.
func (s *service) Login(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	u := s.findByUsername(username)
	if u == nil || u.Password != password {
		return false, nil
	}

	s.currentID = u.ID
	if err := s.notifier.Notify(); err != nil {
		return true, fmt.Errorf("notify subscribers: %w", err)
	}
	return true, nil
}

// Logout clears the current session.
func (s *service) Logout(ctx context.Context) error {
	s.currentID = 0
	if err := s.notifier.Notify(); err != nil {
		return fmt.Errorf("notify subscribers: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a session is active.
func (s *service) IsLoggedIn() bool {
	return s.findByID(s.currentID) != nil
}

// GetCurrentUser returns a copy of the logged-in account, or nil.
func (s *service) GetCurrentUser() *models.User {
	u := s.findByID(s.currentID)
	if u == nil {
		return nil
	}
	out := u.Clone()
	return &out
}

// IsAdmin reports whether the current session carries the Admin
// capability. The bootstrap username is treated as Admin even when its
// role field is inconsistent, for compatibility with legacy snapshots.
func (s *service) IsAdmin() bool {
	u := s.findByID(s.currentID)
	if u == nil {
		return false
	}
	return u.Role.Capabilities().Admin ||
		strings.EqualFold(u.Username, BootstrapAdminUsername)
}

// IsUser reports whether the current session is a non-Admin account.
func (s *service) IsUser() bool {
	return s.IsLoggedIn() && !s.IsAdmin()
}

// GetAllUsers returns an independent copy of the account collection.
func (s *service) GetAllUsers() []models.User {
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// EnsureAdminExists synthesizes the bootstrap Admin when no account
// carries the Admin capability, then reconciles the identifier counter
// with the highest existing identifier.
func (s *service) EnsureAdminExists(ctx context.Context) error {
	var err error
	if s.adminCount() == 0 {
		s.users = append(s.users, models.User{
			ID:       s.nextID,
			Username: BootstrapAdminUsername,
			Password: defaultAdminPassword,
			Role:     models.RoleAdmin,
		})
		s.nextID++
		err = s.commit(ctx)
	}

	for _, u := range s.users {
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return err
}

// Subscribe registers a change callback.
func (s *service) Subscribe(cb notify.Callback) int {
	return s.notifier.Subscribe(cb)
}

// Unsubscribe removes a change callback.
func (s *service) Unsubscribe(id int) {
	s.notifier.Unsubscribe(id)
}

// isLastAdmin reports whether the target account is the only one
// carrying the Admin capability. Gates demotion and deletion.
func (s *service) isLastAdmin(id int) bool {
	if s.adminCount() != 1 {
		return false
	}
	for _, u := range s.users {
		if u.Role.Capabilities().Admin {
			return u.ID == id
		}
	}
	return false
}

func (s *service) adminCount() int {
	count := 0
	for _, u := range s.users {
		if u.Role.Capabilities().Admin {
			count++
		}
	}
	return count
}

func (s *service) findByID(id int) *models.User {
	if id == 0 {
		return nil
	}
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

func (s *service) findByUsername(username string) *models.User {
	for i := range s.users {
		if strings.EqualFold(s.users[i].Username, username) {
			return &s.users[i]
		}
	}
	return nil
}

// commit persists the whole collection and notifies subscribers. A write
// failure is logged and reported but the in-memory state stays
// authoritative.
func (s *service) commit(ctx context.Context) error {
	var errs []error

	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		errs = append(errs, fmt.Errorf("encode snapshot: %w", err))
	} else if err := s.docs.Write(ctx, persist.UsersDocument, data); err != nil {
		slog.Error("user snapshot write failed, in-memory state retained",
			"document", persist.UsersDocument, "error", err)
		errs = append(errs, fmt.Errorf("write snapshot: %w", err))
	}

	if err := s.notifier.Notify(); err != nil {
		errs = append(errs, fmt.Errorf("notify subscribers: %w", err))
	}

	return errors.Join(errs...)
}

// load reads the persisted snapshot into memory and seeds the identifier
// counter. All failures are non-fatal; bootstrap runs afterwards.
func (s *service) load(ctx context.Context) {
	data, err := s.docs.Read(ctx, persist.UsersDocument)
	if errors.Is(err, persist.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("user snapshot read failed, starting empty",
			"document", persist.UsersDocument, "error", err)
		return
	}

	if err := persist.ValidateUsers(data); err != nil {
		slog.Warn("user snapshot malformed, starting empty",
			"document", persist.UsersDocument, "error", err)
		return
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		slog.Warn("user snapshot malformed, starting empty",
			"document", persist.UsersDocument, "error", err)
		return
	}

	s.users = users
	for _, u := range users {
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
}
