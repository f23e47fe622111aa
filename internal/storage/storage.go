// Package storage defines the persistence contract shared by the sqlite and
// file backends. A Provider is chosen once at startup and injected into every
// service; callers never know which backend is behind it.
package storage

import (
	"errors"

	"notekeep/internal/domain/entity"
)

var (
	// ErrNotFound reports that the record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAccessDenied reports that the record exists but belongs to a
	// different user. Owner-filtered reads never return it: a foreign record
	// must be indistinguishable from an absent one, so FindByID collapses
	// both cases into a (nil, nil) miss.
	ErrAccessDenied = errors.New("access denied")
)

// Provider bundles the per-entity stores of one backend.
type Provider interface {
	Users() UserStore
	Categories() CategoryStore
	Notes() NoteStore

	// Kind identifies the backend ("sqlite" or "file") for health reporting.
	Kind() string
	// Ping checks that the persisted medium is reachable.
	Ping() error
	// Stats aggregates the dashboard counters. The sqlite backend computes
	// them server-side; the file backend counts in memory.
	Stats() (*SystemStats, error)
}

type UserStore interface {
	// Create persists the user and assigns its ID.
	Create(user *entity.User) error
	// FindByID returns (nil, nil) if no such user exists.
	FindByID(id int64) (*entity.User, error)
	// FindByEmail returns (nil, nil) if no user has the given email.
	FindByEmail(email string) (*entity.User, error)
	// FindByUsername returns (nil, nil) if no user has the given username.
	FindByUsername(username string) (*entity.User, error)
	FindAll() ([]*entity.User, error)
	// Update applies the set fields of changes, refreshes UpdatedAt and
	// returns the updated user. Returns ErrNotFound if the user is absent.
	Update(id int64, changes UserChanges) (*entity.User, error)
	// CountActiveAdmins counts users with both isAdmin and isActive set.
	CountActiveAdmins() (int64, error)
}

type CategoryStore interface {
	Create(category *entity.Category) error
	// FindByID is owner-scoped: a category owned by another user is reported
	// as absent, never as forbidden.
	FindByID(id, userID int64) (*entity.Category, error)
	// FindByUser returns the user's categories ordered by name.
	FindByUser(userID int64) ([]*entity.Category, error)
	Update(id, userID int64, changes CategoryChanges) (*entity.Category, error)
	// Delete removes the category and nulls the category reference of every
	// note that pointed at it. Both effects are applied atomically from the
	// caller's perspective.
	Delete(id, userID int64) error
	// StatsByUser returns per-category note counts for the user, ordered by name.
	StatsByUser(userID int64) ([]*CategoryStats, error)
}

type NoteStore interface {
	Create(note *entity.Note) error
	// FindByID is owner-scoped with the same existence-hiding semantics as
	// CategoryStore.FindByID.
	FindByID(id, userID int64) (*entity.Note, error)
	// FindByUser returns the user's notes matching filter, pinned notes
	// first, then most recently updated first.
	FindByUser(userID int64, filter NoteFilter) ([]*entity.Note, error)
	Update(id, userID int64, changes NoteChanges) (*entity.Note, error)
	Delete(id, userID int64) error
}

// NoteFilter narrows FindByUser results. Archived is always matched exactly,
// so the default zero value hides archived notes.
type NoteFilter struct {
	CategoryID *int64
	Archived   bool
	Favorites  bool
	Tag        string
}

// UserChanges is a partial update: nil fields are left untouched.
type UserChanges struct {
	Username    *string
	IsAdmin     *bool
	IsActive    *bool
	Preferences entity.Preferences
	LastLogin   *int64
}

// CategoryChanges is a partial update: nil fields are left untouched.
type CategoryChanges struct {
	Name        *string
	Color       *string
	Description *string
}

// NoteChanges is a partial update: nil fields are left untouched.
// ClearCategory detaches the note from its category; it wins over CategoryID.
type NoteChanges struct {
	Title         *string
	Content       *string
	CategoryID    *int64
	ClearCategory bool
	IsPinned      *bool
	IsFavorite    *bool
	IsArchived    *bool
	Tags          []string
	Attachments   []string
}

// CategoryStats is one row of the per-user category aggregation.
type CategoryStats struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	NoteCount int64  `json:"noteCount"`
}

// SystemStats backs the admin dashboard.
type SystemStats struct {
	TotalUsers      int64         `json:"totalUsers"`
	TotalNotes      int64         `json:"totalNotes"`
	TotalCategories int64         `json:"totalCategories"`
	ActiveUsers     int64         `json:"activeUsers"`
	RecentNotes     []*RecentNote `json:"recentNotes"`
	RecentUsers     []*RecentUser `json:"recentUsers"`
}

// RecentNote is a dashboard row: a note title joined with its author.
type RecentNote struct {
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	Username  string `json:"username"`
}

type RecentUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
	LastLogin *int64 `json:"lastLogin"`
}
