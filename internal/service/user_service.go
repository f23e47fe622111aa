package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"notekeep/internal/auth"
	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

// DefaultCategoryName is created for every new user at registration.
const DefaultCategoryName = "General"

type UserService struct {
	Store    storage.Provider
	Tokens   *auth.TokenManager
	Validate *validator.Validate
}

func NewUserService(store storage.Provider, tokens *auth.TokenManager, validate *validator.Validate) *UserService {
	return &UserService{
		Store:    store,
		Tokens:   tokens,
		Validate: validate,
	}
}

// Register creates the user plus their default category and returns an
// issued credential with the public profile.
func (u *UserService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	existing, err := u.Store.Users().FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.UserAlreadyExistsError
	}

	// Usernames are unique too; checked here so both backends report the
	// conflict the same way instead of relying on the relational index.
	existing, err = u.Store.Users().FindByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to check if username is taken: %v", err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.UserAlreadyExistsError
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    digest,
		IsAdmin:     false,
		IsActive:    true,
		Preferences: entity.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.Store.Users().Create(user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}

	category := &entity.Category{
		Name:        DefaultCategoryName,
		Color:       entity.DefaultCategoryColor,
		Description: "Default category for general notes",
		UserID:      user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.Store.Categories().Create(category); err != nil {
		log.Errorf("failed to create default category for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return u.issueCredential(user)
}

// Login verifies the credentials, refreshes lastLogin and issues a token.
// Inactive accounts are rejected the same way as wrong passwords.
func (u *UserService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.Store.Users().FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user by email: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil || !user.IsActive || !auth.CheckPassword(req.Password, user.Password) {
		return nil, apierror.InvalidCredentialsError
	}

	now := utils.NowUTC()
	user, err = u.Store.Users().Update(user.ID, storage.UserChanges{LastLogin: &now})
	if err != nil {
		log.Errorf("failed to refresh last login for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return u.issueCredential(user)
}

// Profile returns the public fields of the authenticated user.
func (u *UserService) Profile(actor *entity.User) (*contract.UserResponse, apierror.ErrorResponse) {
	return toUserResponse(actor), nil
}

func (u *UserService) issueCredential(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := u.Tokens.Sign(user.ID, user.Username)
	if err != nil {
		log.Errorf("failed to sign token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

// toUserResponse maps a user to its public profile. The password digest
// never leaves the service layer.
func toUserResponse(user *entity.User) *contract.UserResponse {
	var lastLogin *string
	if user.LastLogin != nil {
		formatted := utils.FormatEpoch(*user.LastLogin)
		lastLogin = &formatted
	}

	return &contract.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsAdmin:     user.IsAdmin,
		IsActive:    user.IsActive,
		Preferences: user.Preferences,
		LastLogin:   lastLogin,
		CreatedAt:   utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(user.UpdatedAt),
	}
}
