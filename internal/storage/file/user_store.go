package file

import (
	"sync"

	"notekeep/internal/auth"
	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/uid"
)

// bootstrapPassword seeds the very first admin account so a fresh data
// directory is usable at all. It is a known-weak credential and should be
// rotated immediately after the first login.
const (
	bootstrapPassword = "admin123"
	bootstrapUsername = "admin"
	bootstrapEmail    = "admin@localhost"
)

type UserStore struct {
	path string
	mu   sync.Mutex
}

func (u *UserStore) Create(user *entity.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.loadLocked()
	if err != nil {
		return err
	}

	user.ID = uid.Generate()
	users = append(users, user)
	return writeDocument(u.path, users)
}

func (u *UserStore) FindByID(id int64) (*entity.User, error) {
	users, err := u.load()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (u *UserStore) FindByEmail(email string) (*entity.User, error) {
	users, err := u.load()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (u *UserStore) FindByUsername(username string) (*entity.User, error) {
	users, err := u.load()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (u *UserStore) FindAll() ([]*entity.User, error) {
	return u.load()
}

func (u *UserStore) Update(id int64, changes storage.UserChanges) (*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.loadLocked()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.ID != id {
			continue
		}

		changes.Apply(user)
		user.UpdatedAt = utils.NowUTC()
		if err := writeDocument(u.path, users); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, storage.ErrNotFound
}

func (u *UserStore) CountActiveAdmins() (int64, error) {
	users, err := u.load()
	if err != nil {
		return 0, err
	}

	var count int64
	for _, user := range users {
		if user.IsAdmin && user.IsActive {
			count++
		}
	}
	return count, nil
}

func (u *UserStore) load() ([]*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loadLocked()
}

// loadLocked reads the whole users document, creating it with the default
// admin account on first access.
func (u *UserStore) loadLocked() ([]*entity.User, error) {
	var users []*entity.User
	found, err := readDocument(u.path, &users)
	if err != nil {
		return nil, err
	}
	if found {
		return users, nil
	}

	digest, err := auth.HashPassword(bootstrapPassword)
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	users = []*entity.User{{
		ID:          uid.Generate(),
		Username:    bootstrapUsername,
		Email:       bootstrapEmail,
		Password:    digest,
		IsAdmin:     true,
		IsActive:    true,
		Preferences: entity.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}}

	if err := writeDocument(u.path, users); err != nil {
		return nil, err
	}
	return users, nil
}
