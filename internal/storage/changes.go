package storage

import "notekeep/internal/domain/entity"

// The Apply helpers implement the partial-update semantics once, so both
// backends change exactly the same fields and leave the rest untouched.
// Callers set UpdatedAt; Apply never touches timestamps.

func (c UserChanges) Apply(user *entity.User) {
	if c.Username != nil {
		user.Username = *c.Username
	}
	if c.IsAdmin != nil {
		user.IsAdmin = *c.IsAdmin
	}
	if c.IsActive != nil {
		user.IsActive = *c.IsActive
	}
	if c.Preferences != nil {
		user.Preferences = c.Preferences
	}
	if c.LastLogin != nil {
		user.LastLogin = c.LastLogin
	}
}

func (c CategoryChanges) Apply(category *entity.Category) {
	if c.Name != nil {
		category.Name = *c.Name
	}
	if c.Color != nil {
		category.Color = *c.Color
	}
	if c.Description != nil {
		category.Description = *c.Description
	}
}

func (c NoteChanges) Apply(note *entity.Note) {
	if c.Title != nil {
		note.Title = *c.Title
	}
	if c.Content != nil {
		note.Content = *c.Content
	}
	switch {
	case c.ClearCategory:
		note.CategoryID = nil
	case c.CategoryID != nil:
		note.CategoryID = c.CategoryID
	}
	if c.IsPinned != nil {
		note.IsPinned = *c.IsPinned
	}
	if c.IsFavorite != nil {
		note.IsFavorite = *c.IsFavorite
	}
	if c.IsArchived != nil {
		note.IsArchived = *c.IsArchived
	}
	if c.Tags != nil {
		note.Tags = c.Tags
	}
	if c.Attachments != nil {
		note.Attachments = c.Attachments
	}
}

// Matches reports whether a note passes the filter. The file backend filters
// in memory with it; the sqlite backend pushes everything except the tag
// predicate into the query and reuses only the tag check.
func (f NoteFilter) Matches(note *entity.Note) bool {
	if note.IsArchived != f.Archived {
		return false
	}
	if f.Favorites && !note.IsFavorite {
		return false
	}
	if f.CategoryID != nil && (note.CategoryID == nil || *note.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Tag != "" && !note.HasTag(f.Tag) {
		return false
	}
	return true
}
