package file

import (
	"sort"
	"sync"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/uid"
)

type CategoryStore struct {
	path  string
	notes *NoteStore
	mu    sync.Mutex
}

func (c *CategoryStore) Create(category *entity.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories, err := c.loadLocked()
	if err != nil {
		return err
	}

	category.ID = uid.Generate()
	categories = append(categories, category)
	return writeDocument(c.path, categories)
}

func (c *CategoryStore) FindByID(id, userID int64) (*entity.Category, error) {
	categories, err := c.load()
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		if category.ID == id && category.UserID == userID {
			return category, nil
		}
	}
	return nil, nil
}

func (c *CategoryStore) FindByUser(userID int64) ([]*entity.Category, error) {
	categories, err := c.load()
	if err != nil {
		return nil, err
	}

	owned := make([]*entity.Category, 0, len(categories))
	for _, category := range categories {
		if category.UserID == userID {
			owned = append(owned, category)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Name < owned[j].Name
	})
	return owned, nil
}

func (c *CategoryStore) Update(id, userID int64, changes storage.CategoryChanges) (*entity.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories, err := c.loadLocked()
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		if category.ID != id {
			continue
		}

		if category.UserID != userID {
			return nil, storage.ErrAccessDenied
		}

		changes.Apply(category)
		category.UpdatedAt = utils.NowUTC()
		if err := writeDocument(c.path, categories); err != nil {
			return nil, err
		}
		return category, nil
	}
	return nil, storage.ErrNotFound
}

// Delete removes the category and then detaches every note that referenced
// it, mirroring the cascade-to-null behavior of the sqlite backend.
func (c *CategoryStore) Delete(id, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories, err := c.loadLocked()
	if err != nil {
		return err
	}

	for i, category := range categories {
		if category.ID != id {
			continue
		}

		if category.UserID != userID {
			return storage.ErrAccessDenied
		}

		categories = append(categories[:i], categories[i+1:]...)
		if err := writeDocument(c.path, categories); err != nil {
			return err
		}
		return c.notes.clearCategory(id)
	}
	return storage.ErrNotFound
}

func (c *CategoryStore) StatsByUser(userID int64) ([]*storage.CategoryStats, error) {
	categories, err := c.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	notes, err := c.notes.FindByOwnerAll(userID)
	if err != nil {
		return nil, err
	}

	stats := make([]*storage.CategoryStats, len(categories))
	for i, category := range categories {
		row := &storage.CategoryStats{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
		}
		for _, note := range notes {
			if note.CategoryID != nil && *note.CategoryID == category.ID {
				row.NoteCount++
			}
		}
		stats[i] = row
	}
	return stats, nil
}

func (c *CategoryStore) load() ([]*entity.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

func (c *CategoryStore) loadLocked() ([]*entity.Category, error) {
	categories := []*entity.Category{}
	_, err := readDocument(c.path, &categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}
