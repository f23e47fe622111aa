// Package storagetest holds a conformance suite that every storage backend
// must pass, so callers can rely on identical semantics regardless of which
// backend was selected at startup.
package storagetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
)

// Run exercises the shared backend contract against the given provider.
func Run(t *testing.T, p storage.Provider) {
	t.Run("NoteDefaults", func(t *testing.T) { testNoteDefaults(t, p) })
	t.Run("OwnershipHiding", func(t *testing.T) { testOwnershipHiding(t, p) })
	t.Run("PartialUpdate", func(t *testing.T) { testPartialUpdate(t, p) })
	t.Run("UpdateErrors", func(t *testing.T) { testUpdateErrors(t, p) })
	t.Run("DeleteIdempotence", func(t *testing.T) { testDeleteIdempotence(t, p) })
	t.Run("CategoryCascade", func(t *testing.T) { testCategoryCascade(t, p) })
	t.Run("NoteOrdering", func(t *testing.T) { testNoteOrdering(t, p) })
	t.Run("NoteFilters", func(t *testing.T) { testNoteFilters(t, p) })
	t.Run("UserLifecycle", func(t *testing.T) { testUserLifecycle(t, p) })
	t.Run("CategoryStats", func(t *testing.T) { testCategoryStats(t, p) })
}

var userSeq int

// seedUser persists a fresh user with a unique email.
func seedUser(t *testing.T, p storage.Provider) *entity.User {
	t.Helper()

	userSeq++
	now := utils.NowUTC()
	user := &entity.User{
		Username:    fmt.Sprintf("user%d", userSeq),
		Email:       fmt.Sprintf("user%d@example.com", userSeq),
		Password:    "$2a$10$lost.but.irrelevant.for.storage.tests",
		IsActive:    true,
		Preferences: entity.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, p.Users().Create(user))
	require.NotZero(t, user.ID, "backend must assign the identifier")
	return user
}

func seedNote(t *testing.T, p storage.Provider, owner *entity.User, title string) *entity.Note {
	t.Helper()

	now := utils.NowUTC()
	note := &entity.Note{
		Title:       title,
		Content:     "content of " + title,
		UserID:      owner.ID,
		Tags:        []string{},
		Attachments: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, p.Notes().Create(note))
	require.NotZero(t, note.ID)
	return note
}

func seedCategory(t *testing.T, p storage.Provider, owner *entity.User, name string) *entity.Category {
	t.Helper()

	now := utils.NowUTC()
	category := &entity.Category{
		Name:      name,
		Color:     entity.DefaultCategoryColor,
		UserID:    owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, p.Categories().Create(category))
	require.NotZero(t, category.ID)
	return category
}

func testNoteDefaults(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)

	note := seedNote(t, p, owner, "Plain")
	assert.False(t, note.IsFavorite)
	assert.False(t, note.IsArchived)
	assert.False(t, note.IsPinned)

	pinned := &entity.Note{
		Title:     "Pinned",
		UserID:    owner.ID,
		IsPinned:  true,
		CreatedAt: utils.NowUTC(),
		UpdatedAt: utils.NowUTC(),
	}
	require.NoError(t, p.Notes().Create(pinned))

	got, err := p.Notes().FindByID(pinned.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPinned)
	assert.False(t, got.IsFavorite)
	assert.False(t, got.IsArchived)
}

func testOwnershipHiding(t *testing.T, p storage.Provider) {
	alice := seedUser(t, p)
	bob := seedUser(t, p)

	note := seedNote(t, p, alice, "Alice only")
	category := seedCategory(t, p, alice, "Private")

	// A foreign record must be indistinguishable from an absent one.
	got, err := p.Notes().FindByID(note.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	gotCat, err := p.Categories().FindByID(category.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, gotCat)

	// The owner still sees both.
	got, err = p.Notes().FindByID(note.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, note.ID, got.ID)
}

func testPartialUpdate(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)
	note := seedNote(t, p, owner, "Original title")

	before := note.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	content := "rewritten"
	updated, err := p.Notes().Update(note.ID, owner.ID, storage.NoteChanges{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "Original title", updated.Title, "untouched fields keep their value")
	assert.Equal(t, "rewritten", updated.Content)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, before, "UpdatedAt must be refreshed")
}

func testUpdateErrors(t *testing.T, p storage.Provider) {
	alice := seedUser(t, p)
	bob := seedUser(t, p)
	note := seedNote(t, p, alice, "Owned")

	title := "hijacked"
	_, err := p.Notes().Update(note.ID, bob.ID, storage.NoteChanges{Title: &title})
	assert.ErrorIs(t, err, storage.ErrAccessDenied)

	_, err = p.Notes().Update(note.ID+9999, alice.ID, storage.NoteChanges{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = p.Notes().Delete(note.ID, bob.ID)
	assert.ErrorIs(t, err, storage.ErrAccessDenied)
}

func testDeleteIdempotence(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)
	note := seedNote(t, p, owner, "Doomed")

	require.NoError(t, p.Notes().Delete(note.ID, owner.ID))

	err := p.Notes().Delete(note.ID, owner.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "second delete reports absence, never crashes")

	got, err := p.Notes().FindByID(note.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testCategoryCascade(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)
	category := seedCategory(t, p, owner, "Work")

	note := seedNote(t, p, owner, "Attached")
	_, err := p.Notes().Update(note.ID, owner.ID, storage.NoteChanges{CategoryID: &category.ID})
	require.NoError(t, err)

	require.NoError(t, p.Categories().Delete(category.ID, owner.ID))

	got, err := p.Notes().FindByID(note.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "the note itself survives the category")
	assert.Nil(t, got.CategoryID, "category reference must be cleared")
	assert.Equal(t, "Attached", got.Title)

	gone, err := p.Categories().FindByID(category.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func testNoteOrdering(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)

	n1 := seedNote(t, p, owner, "first")
	n2 := seedNote(t, p, owner, "second")
	n3 := seedNote(t, p, owner, "third")

	touch := func(id int64, changes storage.NoteChanges) {
		time.Sleep(5 * time.Millisecond)
		_, err := p.Notes().Update(id, owner.ID, changes)
		require.NoError(t, err)
	}

	content := "touched"
	touch(n1.ID, storage.NoteChanges{Content: &content})
	pinned := true
	touch(n2.ID, storage.NoteChanges{IsPinned: &pinned})
	touch(n3.ID, storage.NoteChanges{Content: &content})

	notes, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 3)

	// Pinned first, then most recently updated.
	assert.Equal(t, n2.ID, notes[0].ID)
	assert.Equal(t, n3.ID, notes[1].ID)
	assert.Equal(t, n1.ID, notes[2].ID)
}

func testNoteFilters(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)
	category := seedCategory(t, p, owner, "Filtered")

	work := seedNote(t, p, owner, "work note")
	_, err := p.Notes().Update(work.ID, owner.ID, storage.NoteChanges{
		Tags:       []string{"work", "urgent"},
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	home := seedNote(t, p, owner, "home note")
	_, err = p.Notes().Update(home.ID, owner.ID, storage.NoteChanges{Tags: []string{"home"}})
	require.NoError(t, err)

	favorite := true
	fav := seedNote(t, p, owner, "favorite note")
	_, err = p.Notes().Update(fav.ID, owner.ID, storage.NoteChanges{IsFavorite: &favorite})
	require.NoError(t, err)

	archived := true
	arch := seedNote(t, p, owner, "archived note")
	_, err = p.Notes().Update(arch.ID, owner.ID, storage.NoteChanges{IsArchived: &archived})
	require.NoError(t, err)

	byTag, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{Tag: "work"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, work.ID, byTag[0].ID)

	byCategory, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, work.ID, byCategory[0].ID)

	favorites, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{Favorites: true})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, fav.ID, favorites[0].ID)

	// Archived notes are hidden by default and listed only on request.
	everything, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{})
	require.NoError(t, err)
	assert.Len(t, everything, 3)

	archivedOnly, err := p.Notes().FindByUser(owner.ID, storage.NoteFilter{Archived: true})
	require.NoError(t, err)
	require.Len(t, archivedOnly, 1)
	assert.Equal(t, arch.ID, archivedOnly[0].ID)
}

func testUserLifecycle(t *testing.T, p storage.Provider) {
	user := seedUser(t, p)

	byEmail, err := p.Users().FindByEmail(user.Email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := p.Users().FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byUsername, err := p.Users().FindByUsername(user.Username)
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, user.ID, byUsername.ID)

	missing, err = p.Users().FindByUsername("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// A user created inactive must be persisted inactive; the stored value
	// is the caller's, never a schema default.
	now := utils.NowUTC()
	dormant := &entity.User{
		Username:  user.Username + "-dormant",
		Email:     "dormant-" + user.Email,
		Password:  user.Password,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, p.Users().Create(dormant))

	stored, err := p.Users().FindByID(dormant.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	admin := true
	updated, err := p.Users().Update(user.ID, storage.UserChanges{IsAdmin: &admin})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
	assert.Equal(t, user.Username, updated.Username)

	count, err := p.Users().CountActiveAdmins()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(1))

	inactive := false
	_, err = p.Users().Update(user.ID, storage.UserChanges{IsActive: &inactive})
	require.NoError(t, err)

	after, err := p.Users().CountActiveAdmins()
	require.NoError(t, err)
	assert.Equal(t, count-1, after, "deactivated admins no longer count")
}

func testCategoryStats(t *testing.T, p storage.Provider) {
	owner := seedUser(t, p)
	work := seedCategory(t, p, owner, "AAA Work")
	empty := seedCategory(t, p, owner, "BBB Empty")

	for i := 0; i < 3; i++ {
		note := seedNote(t, p, owner, fmt.Sprintf("stat note %d", i))
		_, err := p.Notes().Update(note.ID, owner.ID, storage.NoteChanges{CategoryID: &work.ID})
		require.NoError(t, err)
	}

	stats, err := p.Categories().StatsByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, work.ID, stats[0].ID)
	assert.Equal(t, int64(3), stats[0].NoteCount)
	assert.Equal(t, empty.ID, stats[1].ID)
	assert.Equal(t, int64(0), stats[1].NoteCount)
}
