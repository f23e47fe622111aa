package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/contract"
	"notekeep/internal/storage"
)

func TestCreateNoteDefaults(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{})
	require.Nil(t, apierr)

	assert.Equal(t, contract.DefaultNoteTitle, note.Title)
	assert.Empty(t, note.Content)
	assert.Nil(t, note.CategoryID)
	assert.False(t, note.IsPinned)
	assert.False(t, note.IsFavorite)
	assert.False(t, note.IsArchived)
	assert.NotNil(t, note.Tags)
	assert.Empty(t, note.Tags)
	assert.NotNil(t, note.Attachments)
	assert.Equal(t, 0, note.ViewCount)
}

func TestCreateNoteRejectsDuplicateTags(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	_, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title: "Tagged",
		Tags:  []string{"work", "work"},
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestUpdateNotePartial(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title:   "Keep this title",
		Content: "old content",
	})
	require.Nil(t, apierr)

	content := "new content"
	updated, apierr := env.notes.UpdateNote(alice, note.ID, &contract.UpdateNoteRequest{
		Content: &content,
	})
	require.Nil(t, apierr)

	assert.Equal(t, "Keep this title", updated.Title)
	assert.Equal(t, "new content", updated.Content)
}

func TestUpdateNoteClearCategory(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	categories, err := env.store.Categories().FindByUser(alice.ID)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title:      "Categorized",
		CategoryID: &categories[0].ID,
	})
	require.Nil(t, apierr)
	require.NotNil(t, note.CategoryID)

	updated, apierr := env.notes.UpdateNote(alice, note.ID, &contract.UpdateNoteRequest{
		ClearCategory: true,
	})
	require.Nil(t, apierr)
	assert.Nil(t, updated.CategoryID)
}

func TestNoteOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")
	bob := registerUser(t, env, "bob", "bob@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Private"})
	require.Nil(t, apierr)

	// Reads hide foreign notes entirely.
	_, getErr := env.notes.GetNoteByID(bob, note.ID)
	require.NotNil(t, getErr)
	assert.Equal(t, 404, getErr.Code())

	// Writes on a foreign note surface the ownership violation.
	title := "hijacked"
	_, updErr := env.notes.UpdateNote(bob, note.ID, &contract.UpdateNoteRequest{Title: &title})
	require.NotNil(t, updErr)
	assert.Equal(t, 403, updErr.Code())

	delErr := env.notes.DeleteNote(bob, note.ID)
	require.NotNil(t, delErr)
	assert.Equal(t, 403, delErr.Code())
}

func TestSetNoteFlags(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Flagged"})
	require.Nil(t, apierr)

	favorite := true
	flagged, apierr := env.notes.SetNoteFlags(alice, note.ID, &contract.NoteFlagRequest{IsFavorite: &favorite})
	require.Nil(t, apierr)
	assert.True(t, flagged.IsFavorite)
	assert.False(t, flagged.IsArchived)

	archived := true
	flagged, apierr = env.notes.SetNoteFlags(alice, note.ID, &contract.NoteFlagRequest{IsArchived: &archived})
	require.Nil(t, apierr)
	assert.True(t, flagged.IsFavorite, "earlier flag survives")
	assert.True(t, flagged.IsArchived)
}

func TestGetNotesFilters(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	_, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title: "Work note",
		Tags:  []string{"work"},
	})
	require.Nil(t, apierr)

	_, apierr = env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title: "Home note",
		Tags:  []string{"home"},
	})
	require.Nil(t, apierr)

	all, apierr := env.notes.GetNotes(alice, storage.NoteFilter{})
	require.Nil(t, apierr)
	assert.Len(t, all, 2)

	tagged, apierr := env.notes.GetNotes(alice, storage.NoteFilter{Tag: "work"})
	require.Nil(t, apierr)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Work note", tagged[0].Title)
}

func TestDeleteNote(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Doomed"})
	require.Nil(t, apierr)

	require.Nil(t, env.notes.DeleteNote(alice, note.ID))

	again := env.notes.DeleteNote(alice, note.ID)
	require.NotNil(t, again)
	assert.Equal(t, 404, again.Code())
}

func TestAddAttachment(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "With file"})
	require.Nil(t, apierr)

	header := makeFileHeader(t, "report.pdf", []byte("%PDF-1.4 fake"))
	updated, apierr := env.notes.AddAttachment(alice, note.ID, header)
	require.Nil(t, apierr)

	require.Len(t, updated.Attachments, 1)
	key := updated.Attachments[0]
	assert.Contains(t, key, ".pdf")
	assert.Equal(t, []byte("%PDF-1.4 fake"), env.bucket.uploads[key])
}

func TestAddAttachmentForeignNote(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")
	bob := registerUser(t, env, "bob", "bob@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Private"})
	require.Nil(t, apierr)

	header := makeFileHeader(t, "sneaky.txt", []byte("nope"))
	_, attachErr := env.notes.AddAttachment(bob, note.ID, header)
	require.NotNil(t, attachErr)
	assert.Equal(t, 404, attachErr.Code())
	assert.Empty(t, env.bucket.uploads, "nothing may be uploaded for a foreign note")
}
