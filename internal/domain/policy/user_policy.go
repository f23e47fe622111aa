package policy

import (
	"notekeep/internal/domain/entity"
	"notekeep/internal/utils/apierror"
)

// UserPolicy encapsulates all business rules for user administration.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// The active admin count is supplied by the service so the policy itself
// stays storage-free.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

// CanDeleteUser checks if 'actor' may soft-delete 'target'. Deleting the
// last active admin would lock everyone out, so it is always refused.
func (p *UserPolicy) CanDeleteUser(actor, target *entity.User, activeAdmins int64) apierror.ErrorResponse {
	if actor.ID == target.ID {
		return apierror.SelfDeletionError
	}

	if target.IsAdmin && target.IsActive && activeAdmins <= 1 {
		return apierror.LastAdminError
	}
	return nil
}

// CanUpdateStatus checks if 'actor' may apply the given isActive/isAdmin
// changes to 'target'.
func (p *UserPolicy) CanUpdateStatus(actor, target *entity.User, isActive, isAdmin *bool, activeAdmins int64) apierror.ErrorResponse {
	// Rule 1: actors never deactivate themselves.
	if actor.ID == target.ID && isActive != nil && !*isActive {
		return apierror.SelfDeactivationError
	}

	// Rule 2: the change must leave at least one active admin.
	if wouldRemoveLastAdmin(target, isActive, isAdmin, activeAdmins) {
		return apierror.LastAdminError
	}
	return nil
}

func wouldRemoveLastAdmin(target *entity.User, isActive, isAdmin *bool, activeAdmins int64) bool {
	if !target.IsAdmin || !target.IsActive {
		return false
	}

	demoted := isAdmin != nil && !*isAdmin
	deactivated := isActive != nil && !*isActive
	return (demoted || deactivated) && activeAdmins <= 1
}
