package handler

import (
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=20"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=20"`
	Username  string `json:"username"   validate:"required,min=6,max=15"`
	Email     string `json:"email"      validate:"required,email,max=50"`
	Password  string `json:"password"   validate:"required,min=8,max=20"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=20"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=20"`
	Password1       string `json:"password1"        validate:"required,min=8,max=20"`
	Password2       string `json:"password2"        validate:"required,min=8,max=20"`
}

type sendTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type resetPasswordRequest struct {
	Token     string `json:"token"     validate:"required"`
	Password1 string `json:"password1" validate:"required,min=8,max=20"`
	Password2 string `json:"password2" validate:"required,min=8,max=20"`
}

// --- Response types ---

type detailResponse struct {
	Detail string `json:"detail"`
	Token  string `json:"token,omitempty"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Verified  bool      `json:"is_verified"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Verified:  u.Verified,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
