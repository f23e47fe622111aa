package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
)

// bootstrapAdmin fetches the seeded default admin account.
func bootstrapAdmin(t *testing.T, env *testEnv) *entity.User {
	t.Helper()

	admin, err := env.store.Users().FindByEmail("admin@localhost")
	require.NoError(t, err)
	require.NotNil(t, admin)
	return admin
}

func boolPtr(v bool) *bool {
	return &v
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	_, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Dashboard note"})
	require.Nil(t, apierr)

	stats, apierr := env.admin.Dashboard()
	require.Nil(t, apierr)

	assert.Equal(t, int64(2), stats.TotalUsers, "bootstrap admin plus alice")
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.TotalNotes)
	assert.Equal(t, int64(1), stats.TotalCategories)

	require.Len(t, stats.RecentNotes, 1)
	assert.Equal(t, "Dashboard note", stats.RecentNotes[0].Title)
	assert.Equal(t, "alice", stats.RecentNotes[0].Username)
}

func TestGetUsers(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "alice@example.com")
	registerUser(t, env, "bob", "bob@example.com")

	users, apierr := env.admin.GetUsers()
	require.Nil(t, apierr)
	assert.Len(t, users, 3)
}

func TestGetUserDetails(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")

	note, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{
		Title:    "Pinned one",
		IsPinned: true,
	})
	require.Nil(t, apierr)

	_, apierr = env.notes.SetNoteFlags(alice, note.ID, &contract.NoteFlagRequest{IsFavorite: boolPtr(true)})
	require.Nil(t, apierr)

	archived, apierr := env.notes.CreateNote(alice, &contract.CreateNoteRequest{Title: "Old one"})
	require.Nil(t, apierr)
	_, apierr = env.notes.SetNoteFlags(alice, archived.ID, &contract.NoteFlagRequest{IsArchived: boolPtr(true)})
	require.Nil(t, apierr)

	details, apierr := env.admin.GetUserDetails(alice.ID)
	require.Nil(t, apierr)

	assert.Equal(t, "alice", details.Username)
	assert.Equal(t, 2, details.NoteCount, "archived notes still count")
	assert.Equal(t, 1, details.CategoryCount)
	assert.Equal(t, 1, details.FavoriteNotes)
	assert.Equal(t, 1, details.PinnedNotes)
	assert.Equal(t, 1, details.ArchivedNotes)
}

func TestGetUserDetailsUnknown(t *testing.T) {
	env := newTestEnv(t)
	bootstrapAdmin(t, env)

	_, apierr := env.admin.GetUserDetails(987654)
	require.NotNil(t, apierr)
	assert.Equal(t, 404, apierr.Code())
}

func TestUpdateUserStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := bootstrapAdmin(t, env)
	alice := registerUser(t, env, "alice", "alice@example.com")

	t.Run("Promote", func(t *testing.T) {
		resp, apierr := env.admin.UpdateUserStatus(admin, alice.ID, &contract.UpdateUserStatusRequest{
			IsAdmin: boolPtr(true),
		})
		require.Nil(t, apierr)
		assert.True(t, resp.IsAdmin)
		assert.True(t, resp.IsActive)
	})

	t.Run("SelfDeactivationRefused", func(t *testing.T) {
		_, apierr := env.admin.UpdateUserStatus(admin, admin.ID, &contract.UpdateUserStatusRequest{
			IsActive: boolPtr(false),
		})
		require.NotNil(t, apierr)
		assert.Equal(t, 400, apierr.Code())
	})

	t.Run("DemoteWithBackupAdmin", func(t *testing.T) {
		// Alice was promoted above, so demoting the bootstrap admin is fine.
		resp, apierr := env.admin.UpdateUserStatus(admin, admin.ID, &contract.UpdateUserStatusRequest{
			IsAdmin: boolPtr(false),
		})
		require.Nil(t, apierr)
		assert.False(t, resp.IsAdmin)
	})
}

func TestUpdateUserStatusLastAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := bootstrapAdmin(t, env)

	_, apierr := env.admin.UpdateUserStatus(admin, admin.ID, &contract.UpdateUserStatusRequest{
		IsAdmin: boolPtr(false),
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := bootstrapAdmin(t, env)
	alice := registerUser(t, env, "alice", "alice@example.com")

	require.Nil(t, env.admin.DeleteUser(admin, alice.ID))

	// Soft delete: the account remains, deactivated.
	stored, err := env.store.Users().FindByID(alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)
}

func TestDeleteUserRefusals(t *testing.T) {
	env := newTestEnv(t)
	admin := bootstrapAdmin(t, env)

	t.Run("Self", func(t *testing.T) {
		apierr := env.admin.DeleteUser(admin, admin.ID)
		require.NotNil(t, apierr)
		assert.Equal(t, 400, apierr.Code())
	})

	t.Run("LastAdmin", func(t *testing.T) {
		other := registerUser(t, env, "second", "second@example.com")
		apierr := env.admin.DeleteUser(other, admin.ID)
		require.NotNil(t, apierr)
		assert.Equal(t, 400, apierr.Code())
	})

	t.Run("Unknown", func(t *testing.T) {
		apierr := env.admin.DeleteUser(admin, 987654)
		require.NotNil(t, apierr)
		assert.Equal(t, 404, apierr.Code())
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	health := env.admin.Health()
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "file", health.Storage)
	assert.NotEmpty(t, health.Timestamp)
	assert.NotEmpty(t, health.Uptime)
}
