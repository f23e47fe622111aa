package contract

import "notekeep/internal/domain/entity"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

// LoginRequest carries no email-format rule on purpose: the bootstrap admin
// account uses a local-only address that strict format checks would reject.
// An unknown or malformed address fails the credential check anyway.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive"`
	IsAdmin  *bool `json:"isAdmin"`
}

type UserResponse struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	IsAdmin     bool               `json:"isAdmin"`
	IsActive    bool               `json:"isActive"`
	Preferences entity.Preferences `json:"preferences"`
	LastLogin   *string            `json:"lastLogin"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// UserDetailsResponse extends the public profile with per-user content
// statistics for the admin dashboard.
type UserDetailsResponse struct {
	UserResponse
	NoteCount     int `json:"noteCount"`
	CategoryCount int `json:"categoryCount"`
	FavoriteNotes int `json:"favoriteNotes"`
	PinnedNotes   int `json:"pinnedNotes"`
	ArchivedNotes int `json:"archivedNotes"`
}
