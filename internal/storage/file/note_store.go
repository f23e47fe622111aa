package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/uid"
)

type NoteStore struct {
	dir string
	mu  sync.Mutex
}

func (n *NoteStore) Create(note *entity.Note) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	note.ID = uid.Generate()
	return writeDocument(n.notePath(note.ID), note)
}

func (n *NoteStore) FindByID(id, userID int64) (*entity.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	note, err := n.read(id)
	if err != nil {
		return nil, err
	}

	if note == nil || note.UserID != userID {
		// Foreign-owned notes look absent on purpose.
		return nil, nil
	}
	return note, nil
}

// FindByUser scans the whole notes directory and filters in memory. Linear
// in the total note count across all users; fine at this backend's scale.
func (n *NoteStore) FindByUser(userID int64, filter storage.NoteFilter) ([]*entity.Note, error) {
	notes, err := n.loadOwned(userID)
	if err != nil {
		return nil, err
	}

	matched := notes[:0]
	for _, note := range notes {
		if filter.Matches(note) {
			matched = append(matched, note)
		}
	}

	// Pinned first, then most recently updated. The stable sort keeps
	// directory (insertion) order for ties.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].IsPinned != matched[j].IsPinned {
			return matched[i].IsPinned
		}
		return matched[i].UpdatedAt > matched[j].UpdatedAt
	})
	return matched, nil
}

// FindByOwnerAll returns every note of the user regardless of flags. Used
// for per-user statistics.
func (n *NoteStore) FindByOwnerAll(userID int64) ([]*entity.Note, error) {
	return n.loadOwned(userID)
}

func (n *NoteStore) Update(id, userID int64, changes storage.NoteChanges) (*entity.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	note, err := n.fetchOwnedLocked(id, userID)
	if err != nil {
		return nil, err
	}

	changes.Apply(note)
	note.UpdatedAt = utils.NowUTC()
	if err := writeDocument(n.notePath(id), note); err != nil {
		return nil, err
	}
	return note, nil
}

func (n *NoteStore) Delete(id, userID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.fetchOwnedLocked(id, userID); err != nil {
		return err
	}
	return os.Remove(n.notePath(id))
}

// clearCategory nulls the category reference of every note pointing at the
// deleted category.
func (n *NoteStore) clearCategory(categoryID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	notes, err := n.loadAllLocked()
	if err != nil {
		return err
	}

	for _, note := range notes {
		if note.CategoryID == nil || *note.CategoryID != categoryID {
			continue
		}

		note.CategoryID = nil
		if err := writeDocument(n.notePath(note.ID), note); err != nil {
			return err
		}
	}
	return nil
}

func (n *NoteStore) loadOwned(userID int64) ([]*entity.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	notes, err := n.loadAllLocked()
	if err != nil {
		return nil, err
	}

	owned := notes[:0]
	for _, note := range notes {
		if note.UserID == userID {
			owned = append(owned, note)
		}
	}
	return owned, nil
}

func (n *NoteStore) loadAll() ([]*entity.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loadAllLocked()
}

func (n *NoteStore) loadAllLocked() ([]*entity.Note, error) {
	entries, err := os.ReadDir(n.dir)
	if err != nil {
		return nil, err
	}

	notes := make([]*entity.Note, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var note entity.Note
		found, err := readDocument(filepath.Join(n.dir, entry.Name()), &note)
		if err != nil {
			return nil, err
		}
		if found {
			notes = append(notes, &note)
		}
	}
	return notes, nil
}

func (n *NoteStore) fetchOwnedLocked(id, userID int64) (*entity.Note, error) {
	note, err := n.read(id)
	if err != nil {
		return nil, err
	}

	if note == nil {
		return nil, storage.ErrNotFound
	}

	if note.UserID != userID {
		return nil, storage.ErrAccessDenied
	}
	return note, nil
}

func (n *NoteStore) read(id int64) (*entity.Note, error) {
	var note entity.Note
	found, err := readDocument(n.notePath(id), &note)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &note, nil
}

func (n *NoteStore) notePath(id int64) string {
	return filepath.Join(n.dir, fmt.Sprintf("%d.json", id))
}
