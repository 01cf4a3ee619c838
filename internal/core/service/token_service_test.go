package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpost/blog-api/internal/core/domain"
)

var testTokenConfig = TokenConfig{
	AccessSecret:       "access-secret",
	RefreshSecret:      "refresh-secret",
	VerificationSecret: "verification-secret",
	ResetSecret:        "reset-secret",
	Algorithm:          "HS256",
	AccessTTL:          30 * time.Minute,
	RefreshTTL:         7 * 24 * time.Hour,
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testTokenConfig, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenService_RejectsUnsupportedAlgorithm(t *testing.T) {
	cfg := testTokenConfig
	cfg.Algorithm = "RS256"
	if _, err := NewTokenService(cfg); err == nil {
		t.Fatalf("expected error for RS256")
	}
}

func TestNewTokenService_RejectsEmptySecret(t *testing.T) {
	cfg := testTokenConfig
	cfg.ResetSecret = ""
	if _, err := NewTokenService(cfg); err == nil {
		t.Fatalf("expected error for empty reset secret")
	}
}

func TestTokenService_RoundTripPerPurpose(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	for _, purpose := range []domain.TokenPurpose{
		domain.PurposeAccess, domain.PurposeRefresh, domain.PurposeVerification, domain.PurposeReset,
	} {
		token, _, err := svc.Issue(purpose, "user01")
		if err != nil {
			t.Fatalf("%s: issue: %v", purpose, err)
		}
		sub, err := svc.Validate(token, purpose)
		if err != nil {
			t.Fatalf("%s: validate: %v", purpose, err)
		}
		if sub != "user01" {
			t.Fatalf("%s: expected subject user01, got %q", purpose, sub)
		}
	}
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	svc := newTestTokenService(t, clock)

	token, exp, err := svc.IssueVerification("user01")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(issuedAt.Add(OneTimeTokenTTL)) {
		t.Fatalf("expected expiry %v, got %v", issuedAt.Add(OneTimeTokenTTL), exp)
	}

	clock.t = exp.Add(-time.Second)
	if _, err := svc.Validate(token, domain.PurposeVerification); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	clock.t = exp
	if _, err := svc.Validate(token, domain.PurposeVerification); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at expiry, got %v", err)
	}

	clock.t = exp.Add(time.Hour)
	if _, err := svc.Validate(token, domain.PurposeVerification); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after expiry, got %v", err)
	}
}

func TestTokenService_SessionTTLs(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &fakeClock{t: issuedAt})

	_, accessExp, _ := svc.IssueAccess("user01")
	_, refreshExp, _ := svc.IssueRefresh("user01")
	_, resetExp, _ := svc.IssueReset("user01")

	if !accessExp.Equal(issuedAt.Add(testTokenConfig.AccessTTL)) {
		t.Fatalf("unexpected access expiry %v", accessExp)
	}
	if !refreshExp.Equal(issuedAt.Add(testTokenConfig.RefreshTTL)) {
		t.Fatalf("unexpected refresh expiry %v", refreshExp)
	}
	if !resetExp.Equal(issuedAt.Add(OneTimeTokenTTL)) {
		t.Fatalf("unexpected reset expiry %v", resetExp)
	}
}

func TestTokenService_AccessAsRefreshIsWrongType(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	access, _, _ := svc.IssueAccess("user01")
	refresh, _, _ := svc.IssueRefresh("user01")

	if _, err := svc.Validate(access, domain.PurposeRefresh); !errors.Is(err, domain.ErrTokenWrongType) {
		t.Fatalf("expected ErrTokenWrongType for access as refresh, got %v", err)
	}
	if _, err := svc.Validate(refresh, domain.PurposeAccess); !errors.Is(err, domain.ErrTokenWrongType) {
		t.Fatalf("expected ErrTokenWrongType for refresh as access, got %v", err)
	}
}

func TestTokenService_SharedSessionSecretStillChecksType(t *testing.T) {
	cfg := testTokenConfig
	cfg.RefreshSecret = cfg.AccessSecret
	svc, err := NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	access, _, _ := svc.IssueAccess("user01")
	if _, err := svc.Validate(access, domain.PurposeRefresh); !errors.Is(err, domain.ErrTokenWrongType) {
		t.Fatalf("expected ErrTokenWrongType, got %v", err)
	}
}

func TestTokenService_OneTimeTokensAreKeySeparated(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	verification, _, _ := svc.IssueVerification("user01")
	reset, _, _ := svc.IssueReset("user01")
	access, _, _ := svc.IssueAccess("user01")

	cases := []struct {
		name    string
		token   string
		purpose domain.TokenPurpose
	}{
		{"verification as reset", verification, domain.PurposeReset},
		{"reset as verification", reset, domain.PurposeVerification},
		{"verification as access", verification, domain.PurposeAccess},
		{"access as verification", access, domain.PurposeVerification},
	}
	for _, tc := range cases {
		if _, err := svc.Validate(tc.token, tc.purpose); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%s: expected ErrTokenMalformed, got %v", tc.name, err)
		}
	}
}

func TestTokenService_OneTimeTokensCarryNoType(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})
	token, _, _ := svc.IssueReset("user01")

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testTokenConfig.ResetSecret), nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := claims["token_type"]; ok {
		t.Fatalf("expected no token_type claim, got %v", claims["token_type"])
	}
	if claims["sub"] != "user01" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})
	access, _, _ := svc.IssueAccess("user01")

	for _, raw := range []string{
		"",
		"not-a-token",
		"a.b.c",
		access[:len(access)-4] + "abcd",
		strings.Repeat("x", 512),
	} {
		if _, err := svc.Validate(raw, domain.PurposeAccess); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestTokenService_RejectsTokenWithoutExpiry(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        "user01",
		"token_type": "access",
	}).SignedString([]byte(testTokenConfig.AccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Validate(raw, domain.PurposeAccess); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":        "user01",
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testTokenConfig.AccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Validate(raw, domain.PurposeAccess); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password1" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("password1", hash) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("password2", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}
