package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notekeep/internal/domain/entity"
	"notekeep/internal/utils/apierror"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestCanDeleteUser(t *testing.T) {
	p := NewUserPolicy()
	admin := &entity.User{ID: 1, IsAdmin: true, IsActive: true}
	other := &entity.User{ID: 2, IsActive: true}

	t.Run("RefusesSelfDeletion", func(t *testing.T) {
		err := p.CanDeleteUser(admin, admin, 2)
		assert.Equal(t, apierror.SelfDeletionError, err)
	})

	t.Run("RefusesLastActiveAdmin", func(t *testing.T) {
		target := &entity.User{ID: 3, IsAdmin: true, IsActive: true}
		err := p.CanDeleteUser(admin, target, 1)
		assert.Equal(t, apierror.LastAdminError, err)
	})

	t.Run("AllowsAdminWhenAnotherRemains", func(t *testing.T) {
		target := &entity.User{ID: 3, IsAdmin: true, IsActive: true}
		assert.Nil(t, p.CanDeleteUser(admin, target, 2))
	})

	t.Run("AllowsRegularUser", func(t *testing.T) {
		assert.Nil(t, p.CanDeleteUser(admin, other, 1))
	})

	t.Run("AllowsInactiveAdmin", func(t *testing.T) {
		target := &entity.User{ID: 3, IsAdmin: true, IsActive: false}
		assert.Nil(t, p.CanDeleteUser(admin, target, 1))
	})
}

func TestCanUpdateStatus(t *testing.T) {
	p := NewUserPolicy()
	admin := &entity.User{ID: 1, IsAdmin: true, IsActive: true}

	t.Run("RefusesSelfDeactivation", func(t *testing.T) {
		err := p.CanUpdateStatus(admin, admin, boolPtr(false), nil, 2)
		assert.Equal(t, apierror.SelfDeactivationError, err)
	})

	t.Run("AllowsSelfOtherChanges", func(t *testing.T) {
		assert.Nil(t, p.CanUpdateStatus(admin, admin, boolPtr(true), nil, 2))
	})

	t.Run("RefusesDemotingLastAdmin", func(t *testing.T) {
		target := &entity.User{ID: 2, IsAdmin: true, IsActive: true}
		err := p.CanUpdateStatus(admin, target, nil, boolPtr(false), 1)
		assert.Equal(t, apierror.LastAdminError, err)
	})

	t.Run("RefusesDeactivatingLastAdmin", func(t *testing.T) {
		target := &entity.User{ID: 2, IsAdmin: true, IsActive: true}
		err := p.CanUpdateStatus(admin, target, boolPtr(false), nil, 1)
		assert.Equal(t, apierror.LastAdminError, err)
	})

	t.Run("AllowsDemotionWhenAnotherAdminRemains", func(t *testing.T) {
		target := &entity.User{ID: 2, IsAdmin: true, IsActive: true}
		assert.Nil(t, p.CanUpdateStatus(admin, target, nil, boolPtr(false), 2))
	})

	t.Run("AllowsPromotingRegularUser", func(t *testing.T) {
		target := &entity.User{ID: 2, IsActive: true}
		assert.Nil(t, p.CanUpdateStatus(admin, target, nil, boolPtr(true), 1))
	})
}
