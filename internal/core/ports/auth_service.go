package ports

import (
	"context"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenService issues and validates purpose-bound signed tokens.
type TokenService interface {
	Issue(purpose domain.TokenPurpose, username string) (string, time.Time, error)
	// Validate returns the token subject or an error wrapping domain.ErrToken.
	Validate(token string, purpose domain.TokenPurpose) (string, error)
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// ChangePasswordInput carries the fields of an authenticated password change.
type ChangePasswordInput struct {
	CurrentPassword string
	Password1       string
	Password2       string
}

// ResetPasswordInput carries the fields of a token-authorised password reset.
type ResetPasswordInput struct {
	Token     string
	Password1 string
	Password2 string
}

// AuthService orchestrates the account lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (string, error)
	Signin(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Authenticate resolves an access token to its stored user.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	ChangePassword(ctx context.Context, user *domain.User, in ChangePasswordInput) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}
