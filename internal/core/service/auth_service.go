package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// AuthService implements signup, signin and the token-driven account flows.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Signup stores an unverified, inactive user and returns a verification token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (string, error) {
	if err := s.ensureUnused(ctx, in.Email, in.Username); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}

	now := s.now()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", err
	}

	token, _, err := s.tokens.Issue(domain.PurposeVerification, user.Username)
	if err != nil {
		return "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	return token, nil
}

func (s *AuthService) ensureUnused(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}

// Signin checks the verified and active gates before the password, so an
// unverified account is reported as such even with a correct password.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Verified {
		return nil, domain.ErrNotVerified
	}
	if !user.Active {
		return nil, domain.ErrNotActive
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("signin rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	access, _, err := s.tokens.Issue(domain.PurposeAccess, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.Issue(domain.PurposeRefresh, user.Username)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token. The refresh token is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	user, err := s.userForToken(ctx, refreshToken, domain.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	access, _, err := s.tokens.Issue(domain.PurposeAccess, user.Username)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.userForToken(ctx, accessToken, domain.PurposeAccess)
}

// ChangePassword replaces the stored hash of user. The user row is re-read so
// the comparison runs against the latest stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, in ports.ChangePasswordInput) error {
	if in.Password1 != in.Password2 {
		return domain.ErrPasswordMismatch
	}

	stored, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(in.CurrentPassword, stored.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if s.hasher.Verify(in.Password1, stored.PasswordHash) {
		return domain.ErrSamePassword
	}

	if err := s.setPassword(ctx, stored, in.Password1); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", stored.ID).Msg("password changed")
	return nil
}

// VerifyEmail opens both sign-in gates for the token subject. Repeating it
// with a fresh token leaves the user in the same state.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userForToken(ctx, token, domain.PurposeVerification)
	if err != nil {
		return err
	}

	user.Verified = true
	user.Active = true
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("email verified")
	return nil
}

// ResendVerification issues a new verification token whatever the user's
// current verified state.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token, _, err := s.tokens.Issue(domain.PurposeVerification, user.Username)
	return token, err
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token, _, err := s.tokens.Issue(domain.PurposeReset, user.Username)
	return token, err
}

// ResetPassword replaces the stored hash unconditionally; unlike
// ChangePassword it does not require the new password to differ.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if in.Password1 != in.Password2 {
		return domain.ErrPasswordMismatch
	}

	user, err := s.userForToken(ctx, in.Token, domain.PurposeReset)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, in.Password1); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

func (s *AuthService) userForToken(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.User, error) {
	username, err := s.tokens.Validate(token, purpose)
	if err != nil {
		return nil, err
	}
	return s.users.FindByUsername(ctx, username)
}
