package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
)

type UserStore struct {
	db *gorm.DB
}

func (u *UserStore) Create(user *entity.User) error {
	return u.db.Create(user).Error
}

func (u *UserStore) FindByID(id int64) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) FindByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserStore) Update(id int64, changes storage.UserChanges) (*entity.User, error) {
	user, err := u.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}

	changes.Apply(user)
	user.UpdatedAt = utils.NowUTC()
	if err := u.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserStore) CountActiveAdmins() (int64, error) {
	var count int64
	err := u.db.Model(&entity.User{}).
		Where("is_admin = ? AND is_active = ?", true, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
