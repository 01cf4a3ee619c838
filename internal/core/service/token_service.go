package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// OneTimeTokenTTL is the fixed lifetime of verification and reset tokens.
const OneTimeTokenTTL = 15 * time.Minute

// TokenConfig holds one signing secret per purpose plus the session TTLs.
type TokenConfig struct {
	AccessSecret       string
	RefreshSecret      string
	VerificationSecret string
	ResetSecret        string
	Algorithm          string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
}

// tokenClaims is the signed payload. TokenType is only set on access and
// refresh tokens; one-time tokens are told apart by their secret alone.
type tokenClaims struct {
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the wall clock used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// TokenService issues and validates stateless HMAC-signed JWTs.
type TokenService struct {
	method  jwt.SigningMethod
	secrets map[domain.TokenPurpose][]byte
	ttls    map[domain.TokenPurpose]time.Duration
	now     func() time.Time
}

func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token service: unsupported algorithm %q", alg)
	}

	s := &TokenService{
		method: method,
		secrets: map[domain.TokenPurpose][]byte{
			domain.PurposeAccess:       []byte(cfg.AccessSecret),
			domain.PurposeRefresh:      []byte(cfg.RefreshSecret),
			domain.PurposeVerification: []byte(cfg.VerificationSecret),
			domain.PurposeReset:        []byte(cfg.ResetSecret),
		},
		ttls: map[domain.TokenPurpose]time.Duration{
			domain.PurposeAccess:       cfg.AccessTTL,
			domain.PurposeRefresh:      cfg.RefreshTTL,
			domain.PurposeVerification: OneTimeTokenTTL,
			domain.PurposeReset:        OneTimeTokenTTL,
		},
		now: time.Now,
	}
	for purpose, secret := range s.secrets {
		if len(secret) == 0 {
			return nil, fmt.Errorf("token service: empty %s secret", purpose)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) IssueAccess(username string) (string, time.Time, error) {
	return s.Issue(domain.PurposeAccess, username)
}

func (s *TokenService) IssueRefresh(username string) (string, time.Time, error) {
	return s.Issue(domain.PurposeRefresh, username)
}

func (s *TokenService) IssueVerification(username string) (string, time.Time, error) {
	return s.Issue(domain.PurposeVerification, username)
}

func (s *TokenService) IssueReset(username string) (string, time.Time, error) {
	return s.Issue(domain.PurposeReset, username)
}

// Issue signs a token binding username to purpose. It returns the token and
// its absolute expiry.
func (s *TokenService) Issue(purpose domain.TokenPurpose, username string) (string, time.Time, error) {
	secret, ok := s.secrets[purpose]
	if !ok {
		return "", time.Time{}, fmt.Errorf("token service: unknown purpose %q", purpose)
	}

	now := s.now()
	exp := jwt.NewNumericDate(now.Add(s.ttls[purpose]))
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: exp,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if purpose.IsSession() {
		claims.TokenType = string(purpose)
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, exp.Time, nil
}

// Validate checks raw against the secret of the expected purpose and returns
// its subject.
//   - ErrTokenExpired: signature good, expiry at or before now.
//   - ErrTokenWrongType: an access token presented as refresh or vice versa.
//   - ErrTokenMalformed: anything else that does not verify.
func (s *TokenService) Validate(raw string, purpose domain.TokenPurpose) (string, error) {
	secret, ok := s.secrets[purpose]
	if !ok {
		return "", fmt.Errorf("token service: unknown purpose %q", purpose)
	}

	claims, err := s.parse(raw, secret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid) && s.signedBySibling(raw, purpose):
			return "", domain.ErrTokenWrongType
		}
		return "", domain.ErrTokenMalformed
	}

	if purpose.IsSession() && claims.TokenType != string(purpose) {
		return "", domain.ErrTokenWrongType
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenMalformed
	}
	return claims.Subject, nil
}

func (s *TokenService) parse(raw string, secret []byte) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return claims, err
}

// signedBySibling reports whether raw carries a valid signature under the
// other session secret. Only access and refresh are siblings.
func (s *TokenService) signedBySibling(raw string, purpose domain.TokenPurpose) bool {
	var sibling domain.TokenPurpose
	switch purpose {
	case domain.PurposeAccess:
		sibling = domain.PurposeRefresh
	case domain.PurposeRefresh:
		sibling = domain.PurposeAccess
	default:
		return false
	}
	_, err := s.parse(raw, s.secrets[sibling])
	return err == nil || errors.Is(err, jwt.ErrTokenInvalidClaims)
}
