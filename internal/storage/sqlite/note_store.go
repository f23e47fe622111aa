package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
)

type NoteStore struct {
	db *gorm.DB
}

func (n *NoteStore) Create(note *entity.Note) error {
	return n.db.Create(note).Error
}

func (n *NoteStore) FindByID(id, userID int64) (*entity.Note, error) {
	var note entity.Note
	err := n.db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (n *NoteStore) FindByUser(userID int64, filter storage.NoteFilter) ([]*entity.Note, error) {
	query := n.db.Where("user_id = ?", userID).
		Where("is_archived = ?", filter.Archived)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Favorites {
		query = query.Where("is_favorite = ?", true)
	}

	var notes []*entity.Note
	err := query.Order("is_pinned DESC, updated_at DESC").Find(&notes).Error
	if err != nil {
		return nil, err
	}

	// Tags live in a serialized JSON column, so tag membership is filtered
	// after the query.
	if filter.Tag == "" {
		return notes, nil
	}

	matched := notes[:0]
	for _, note := range notes {
		if note.HasTag(filter.Tag) {
			matched = append(matched, note)
		}
	}
	return matched, nil
}

func (n *NoteStore) Update(id, userID int64, changes storage.NoteChanges) (*entity.Note, error) {
	note, err := n.fetchOwned(id, userID)
	if err != nil {
		return nil, err
	}

	changes.Apply(note)
	note.UpdatedAt = utils.NowUTC()
	if err := n.db.Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (n *NoteStore) Delete(id, userID int64) error {
	note, err := n.fetchOwned(id, userID)
	if err != nil {
		return err
	}
	return n.db.Delete(note).Error
}

func (n *NoteStore) fetchOwned(id, userID int64) (*entity.Note, error) {
	var note entity.Note
	err := n.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	if note.UserID != userID {
		return nil, storage.ErrAccessDenied
	}
	return &note, nil
}
