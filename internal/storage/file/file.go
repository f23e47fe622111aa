// Package file is the flat-file backend: users and categories live in one
// JSON document each, notes in one JSON document per note. Every collection
// is guarded by its own mutex, so writers within this process cannot race;
// concurrent processes sharing a data directory still overwrite each other,
// which is a documented limitation of this backend.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"notekeep/internal/storage"
)

const (
	usersFile      = "users.json"
	categoriesFile = "categories.json"
	notesDir       = "notes"
)

type Provider struct {
	dir string

	users      *UserStore
	categories *CategoryStore
	notes      *NoteStore
}

// NewProvider prepares the data directory and wires the three stores. The
// default admin account is bootstrapped lazily, on the first users read.
func NewProvider(dir string) (*Provider, error) {
	if err := os.MkdirAll(filepath.Join(dir, notesDir), 0o755); err != nil {
		return nil, err
	}

	notes := &NoteStore{dir: filepath.Join(dir, notesDir)}
	return &Provider{
		dir:        dir,
		users:      &UserStore{path: filepath.Join(dir, usersFile)},
		categories: &CategoryStore{path: filepath.Join(dir, categoriesFile), notes: notes},
		notes:      notes,
	}, nil
}

func (p *Provider) Users() storage.UserStore          { return p.users }
func (p *Provider) Categories() storage.CategoryStore { return p.categories }
func (p *Provider) Notes() storage.NoteStore          { return p.notes }

func (p *Provider) Kind() string {
	return "file"
}

func (p *Provider) Ping() error {
	_, err := os.Stat(p.dir)
	return err
}

func (p *Provider) Stats() (*storage.SystemStats, error) {
	users, err := p.users.load()
	if err != nil {
		return nil, err
	}

	notes, err := p.notes.loadAll()
	if err != nil {
		return nil, err
	}

	categories, err := p.categories.load()
	if err != nil {
		return nil, err
	}

	stats := &storage.SystemStats{
		TotalUsers:      int64(len(users)),
		TotalNotes:      int64(len(notes)),
		TotalCategories: int64(len(categories)),
	}

	usernames := make(map[int64]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
		if user.IsActive {
			stats.ActiveUsers++
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt > notes[j].CreatedAt
	})
	for _, note := range notes {
		if len(stats.RecentNotes) == 5 {
			break
		}
		stats.RecentNotes = append(stats.RecentNotes, &storage.RecentNote{
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
			Username:  usernames[note.UserID],
		})
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt > users[j].CreatedAt
	})
	for _, user := range users {
		if len(stats.RecentUsers) == 5 {
			break
		}
		stats.RecentUsers = append(stats.RecentUsers, &storage.RecentUser{
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			LastLogin: user.LastLogin,
		})
	}
	return stats, nil
}

// readDocument parses a whole JSON document into dst. A missing file is not
// an error: dst is left as-is and ok is false.
func readDocument(path string, dst any) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dst)
}

// writeDocument replaces the document at path atomically: the content goes
// to a fresh temp file first, which is then renamed over the target. The old
// document stays intact if the write fails halfway.
func writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
