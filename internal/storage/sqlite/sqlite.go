// Package sqlite is the relational backend: GORM over a SQLite database with
// auto-created tables, foreign keys and server-side aggregation.
package sqlite

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
)

type Provider struct {
	db *gorm.DB

	users      *UserStore
	categories *CategoryStore
	notes      *NoteStore
}

// NewProvider opens (or creates) the database at dbPath and migrates the
// schema idempotently.
func NewProvider(dbPath string) (*Provider, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&entity.User{}, &entity.Category{}, &entity.Note{})
	if err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Provider{
		db:         db,
		users:      &UserStore{db: db},
		categories: &CategoryStore{db: db},
		notes:      &NoteStore{db: db},
	}, nil
}

func (p *Provider) Users() storage.UserStore          { return p.users }
func (p *Provider) Categories() storage.CategoryStore { return p.categories }
func (p *Provider) Notes() storage.NoteStore          { return p.notes }

func (p *Provider) Kind() string {
	return "sqlite"
}

func (p *Provider) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (p *Provider) Stats() (*storage.SystemStats, error) {
	stats := &storage.SystemStats{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, p.db.Model(&entity.User{})},
		{&stats.TotalNotes, p.db.Model(&entity.Note{})},
		{&stats.TotalCategories, p.db.Model(&entity.Category{})},
		{&stats.ActiveUsers, p.db.Model(&entity.User{}).Where("is_active = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	err := p.db.Model(&entity.Note{}).
		Select("notes.title, notes.created_at, users.username").
		Joins("JOIN users ON users.id = notes.user_id").
		Order("notes.created_at DESC").
		Limit(5).
		Scan(&stats.RecentNotes).Error
	if err != nil {
		return nil, err
	}

	err = p.db.Model(&entity.User{}).
		Select("username, email, created_at, last_login").
		Order("created_at DESC").
		Limit(5).
		Scan(&stats.RecentUsers).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
