package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/domain/policy"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
	Uptime    string `json:"uptime"`
}

type AdminService struct {
	Store      storage.Provider
	Validate   *validator.Validate
	UserPolicy *policy.UserPolicy

	startedAt time.Time
}

func NewAdminService(store storage.Provider, validate *validator.Validate, userPolicy *policy.UserPolicy) *AdminService {
	return &AdminService{
		Store:      store,
		Validate:   validate,
		UserPolicy: userPolicy,
		startedAt:  time.Now(),
	}
}

// Dashboard aggregates the system-wide counters and recent activity.
func (a *AdminService) Dashboard() (*storage.SystemStats, apierror.ErrorResponse) {
	stats, err := a.Store.Stats()
	if err != nil {
		log.Errorf("failed to load dashboard statistics: %v", err)
		return nil, apierror.InternalServerError
	}
	return stats, nil
}

func (a *AdminService) GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse) {
	users, err := a.Store.Users().FindAll()
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// GetUserDetails returns the profile plus note/category statistics.
func (a *AdminService) GetUserDetails(userID int64) (*contract.UserDetailsResponse, apierror.ErrorResponse) {
	user, err := a.Store.Users().FindByID(userID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}

	categories, err := a.Store.Categories().FindByUser(userID)
	if err != nil {
		log.Errorf("failed to fetch categories of user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	details := &contract.UserDetailsResponse{
		UserResponse:  *toUserResponse(user),
		CategoryCount: len(categories),
	}

	// Two passes over the note flags: active notes first, archived second,
	// since FindByUser matches the archived flag exactly.
	for _, archived := range []bool{false, true} {
		notes, err := a.Store.Notes().FindByUser(userID, storage.NoteFilter{Archived: archived})
		if err != nil {
			log.Errorf("failed to fetch notes of user %d: %v", userID, err)
			return nil, apierror.InternalServerError
		}

		details.NoteCount += len(notes)
		for _, note := range notes {
			if note.IsFavorite {
				details.FavoriteNotes++
			}
			if note.IsPinned {
				details.PinnedNotes++
			}
			if note.IsArchived {
				details.ArchivedNotes++
			}
		}
	}
	return details, nil
}

// UpdateUserStatus applies isActive/isAdmin changes, guarded by the admin
// safeguards: no self-deactivation, and never less than one active admin.
func (a *AdminService) UpdateUserStatus(actor *entity.User, targetID int64, req *contract.UpdateUserStatusRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	target, err := a.Store.Users().FindByID(targetID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", targetID, err)
		return nil, apierror.InternalServerError
	}

	if target == nil {
		return nil, apierror.NotFoundError
	}

	activeAdmins, err := a.Store.Users().CountActiveAdmins()
	if err != nil {
		log.Errorf("failed to count active admins: %v", err)
		return nil, apierror.InternalServerError
	}

	if perr := a.UserPolicy.CanUpdateStatus(actor, target, req.IsActive, req.IsAdmin, activeAdmins); perr != nil {
		return nil, perr
	}

	updated, err := a.Store.Users().Update(targetID, storage.UserChanges{
		IsActive: req.IsActive,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		log.Errorf("actor %d failed to update user %d: %v", actor.ID, targetID, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(updated), nil
}

// DeleteUser deactivates the target account. Users are never hard-deleted.
func (a *AdminService) DeleteUser(actor *entity.User, targetID int64) apierror.ErrorResponse {
	target, err := a.Store.Users().FindByID(targetID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", targetID, err)
		return apierror.InternalServerError
	}

	if target == nil {
		return apierror.NotFoundError
	}

	activeAdmins, err := a.Store.Users().CountActiveAdmins()
	if err != nil {
		log.Errorf("failed to count active admins: %v", err)
		return apierror.InternalServerError
	}

	if perr := a.UserPolicy.CanDeleteUser(actor, target, activeAdmins); perr != nil {
		return perr
	}

	inactive := false
	if _, err := a.Store.Users().Update(targetID, storage.UserChanges{IsActive: &inactive}); err != nil {
		log.Errorf("failed to deactivate user %d: %v", targetID, err)
		return apierror.InternalServerError
	}
	return nil
}

// Health reports backend reachability; a failing Ping degrades the status
// instead of erroring, so the endpoint stays useful during outages.
func (a *AdminService) Health() *HealthResponse {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: utils.FormatEpoch(utils.NowUTC()),
		Storage:   a.Store.Kind(),
		Uptime:    time.Since(a.startedAt).Round(time.Second).String(),
	}

	if err := a.Store.Ping(); err != nil {
		log.Errorf("storage ping failed: %v", err)
		health.Status = "degraded"
	}
	return health
}
