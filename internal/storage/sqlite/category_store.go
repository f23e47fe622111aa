package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
)

type CategoryStore struct {
	db *gorm.DB
}

func (c *CategoryStore) Create(category *entity.Category) error {
	return c.db.Create(category).Error
}

func (c *CategoryStore) FindByID(id, userID int64) (*entity.Category, error) {
	var category entity.Category
	err := c.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Foreign-owned categories look absent on purpose.
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryStore) FindByUser(userID int64) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := c.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryStore) Update(id, userID int64, changes storage.CategoryChanges) (*entity.Category, error) {
	category, err := c.fetchOwned(c.db, id, userID)
	if err != nil {
		return nil, err
	}

	changes.Apply(category)
	category.UpdatedAt = utils.NowUTC()
	if err := c.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete nulls the category reference of every dependent note, then removes
// the category row. Both statements run in one transaction so readers never
// observe a half-applied cascade.
func (c *CategoryStore) Delete(id, userID int64) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		if _, err := c.fetchOwned(tx, id, userID); err != nil {
			return err
		}

		err := tx.Model(&entity.Note{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&entity.Category{}, id).Error
	})
}

func (c *CategoryStore) StatsByUser(userID int64) ([]*storage.CategoryStats, error) {
	var stats []*storage.CategoryStats
	err := c.db.Model(&entity.Category{}).
		Select("categories.id, categories.name, categories.color, COUNT(notes.id) AS note_count").
		Joins("LEFT JOIN notes ON notes.category_id = categories.id").
		Where("categories.user_id = ?", userID).
		Group("categories.id, categories.name, categories.color").
		Order("categories.name ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// fetchOwned loads the category distinguishing absence from foreign
// ownership, as Update/Delete must report them differently.
func (c *CategoryStore) fetchOwned(tx *gorm.DB, id, userID int64) (*entity.Category, error) {
	var category entity.Category
	err := tx.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	if category.UserID != userID {
		return nil, storage.ErrAccessDenied
	}
	return &category, nil
}
