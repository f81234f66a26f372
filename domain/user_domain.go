package domain

import (
	"errors"
)

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "login successful"
	MessageSuccessGetMe    = "user retrieved successfully"

	MessageSuccessCreateLocation = "location created successfully"
	MessageFailedCreateLocation  = "failed to create location"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "failed to login"
	MessageFailedGetMe    = "failed to retrieve user"

	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrCredentialsInvalid  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrHashPasswordFailed  = errors.New("failed to hash password")
	ErrGenerateTokenFailed = errors.New("failed to generate token")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	CreateLocationRequest struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address,omitempty"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserResponse struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		Role        string   `json:"role"`
		LocationIDs []string `json:"location_ids"`
	}
)
