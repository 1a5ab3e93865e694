package domain

import (
	"errors"
	"time"
)

const (
	DefaultCountry     = "India"
	AdminInitialCredit = 999999
)

var (
	MessageSuccessRegister    = "user registered successfully"
	MessageSuccessLogin       = "user logged in successfully"
	MessageSuccessGetProfile  = "user profile retrieved successfully"
	MessageSuccessLogout      = "user logged out successfully"
	MessageSuccessGetUsers    = "users retrieved successfully"
	MessageSuccessDeleteUser  = "User deleted successfully."
	MessageSuccessSetCredits  = "Credits updated successfully."
	MessageSuccessAddCredits  = "Credits added successfully."
	MessageFailedRegister     = "failed to register user"
	MessageFailedLogin        = "failed to login"
	MessageFailedGetProfile   = "failed to retrieve user profile"
	MessageFailedLogout       = "failed to logout"
	MessageFailedGetUsers     = "failed to retrieve users"
	MessageFailedDeleteUser   = "failed to delete user"
	MessageFailedUpdateCredit = "failed to update credits"

	ErrEmailAlreadyExists = errors.New("Email already registered.")
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	ErrUserNotFound       = errors.New("User not found.")
	ErrCannotDeleteSelf   = errors.New("Cannot delete your own admin account.")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Country  string `json:"country" validate:"omitempty,max=64"`
		DeviceID string `json:"device_id" validate:"omitempty,max=128"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserProfile struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Credits   int       `json:"credits"`
		IsAdmin   bool      `json:"is_admin"`
		Country   string    `json:"country"`
		CreatedAt time.Time `json:"created_at"`
	}

	AuthResponse struct {
		User  UserProfile `json:"user"`
		Token string      `json:"token"`
	}
)
