package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/auth"
	"notekeep/internal/domain/entity"
	"notekeep/internal/storage/storagetest"
	"notekeep/internal/utils"
	"notekeep/internal/utils/uid"
)

func TestMain(m *testing.M) {
	uid.Init(1)
	os.Exit(m.Run())
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	p, err := NewProvider(t.TempDir())
	require.NoError(t, err)
	return p
}

func TestProviderConformance(t *testing.T) {
	storagetest.Run(t, newTestProvider(t))
}

func TestBootstrapAdmin(t *testing.T) {
	p := newTestProvider(t)

	// The very first read of an empty data directory seeds the default admin.
	admin, err := p.Users().FindByEmail("admin@localhost")
	require.NoError(t, err)
	require.NotNil(t, admin)

	assert.Equal(t, "admin", admin.Username)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)
	assert.NotZero(t, admin.ID)
	assert.True(t, auth.CheckPassword("admin123", admin.Password))

	count, err := p.Users().CountActiveAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBootstrapRunsOnce(t *testing.T) {
	dir := t.TempDir()

	p, err := NewProvider(dir)
	require.NoError(t, err)

	first, err := p.Users().FindByEmail("admin@localhost")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Reopening the same directory must reuse the persisted account.
	reopened, err := NewProvider(dir)
	require.NoError(t, err)

	second, err := reopened.Users().FindByEmail("admin@localhost")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	all, err := reopened.Users().FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	p, err := NewProvider(dir)
	require.NoError(t, err)

	now := utils.NowUTC()
	user := &entity.User{
		Username: "carol", Email: "carol@example.com", Password: "x",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, p.Users().Create(user))

	note := &entity.Note{Title: "persisted", UserID: user.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, p.Notes().Create(note))

	reopened, err := NewProvider(dir)
	require.NoError(t, err)

	got, err := reopened.Notes().FindByID(note.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "persisted", got.Title)

	// One document per note, no temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, notesDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestProviderStats(t *testing.T) {
	p := newTestProvider(t)

	now := utils.NowUTC()
	user := &entity.User{
		Username: "dave", Email: "dave@example.com", Password: "x",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, p.Users().Create(user))

	note := &entity.Note{Title: "stat note", UserID: user.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, p.Notes().Create(note))

	stats, err := p.Stats()
	require.NoError(t, err)

	// The bootstrap admin is counted alongside the created user.
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.TotalNotes)

	require.Len(t, stats.RecentNotes, 1)
	assert.Equal(t, "stat note", stats.RecentNotes[0].Title)
	assert.Equal(t, "dave", stats.RecentNotes[0].Username)
}

func TestProviderPing(t *testing.T) {
	p := newTestProvider(t)
	assert.NoError(t, p.Ping())
	assert.Equal(t, "file", p.Kind())
}
