package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Specific errors below wrap one of these so callers can
// match at either granularity with errors.Is.
var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrToken      = errors.New("token error")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrEmailInUse    = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrUsernameInUse = fmt.Errorf("%w: username already in use", ErrConflict)

	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrBlogNotFound = fmt.Errorf("%w: blog not found", ErrNotFound)

	ErrTokenMalformed = fmt.Errorf("%w: could not validate credentials", ErrToken)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrToken)
	ErrTokenWrongType = fmt.Errorf("%w: wrong token type", ErrToken)
)

var (
	ErrInvalidCredentials = errors.New("wrong credentials")
	ErrNotVerified        = errors.New("please verify your email")
	ErrNotActive          = errors.New("user is not active")

	ErrPasswordMismatch = errors.New("password1 and password2 must be the same")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrSamePassword     = errors.New("new password must differ from the current password")

	ErrForbidden      = errors.New("access forbidden")
	ErrInvalidPayload = errors.New("invalid upload payload")
)
