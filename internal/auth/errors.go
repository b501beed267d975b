package auth

import (
	"errors"
	"fmt"

	"github.com/yene-farm/yene-farm/internal/shared"
)

var (
	// ErrTokenInvalid covers malformed, forged, revoked and wrongly signed tokens.
	ErrTokenInvalid = errors.New("auth: token invalid")
	// ErrTokenExpired indicates a well-signed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrCurrentPasswordIncorrect is returned by ChangePassword.
	ErrCurrentPasswordIncorrect = errors.New("auth: current password incorrect")
	// ErrEmptyPassword rejects hashing of empty input.
	ErrEmptyPassword = errors.New("auth: empty password")
	// ErrPasswordTooLong rejects passwords bcrypt would refuse.
	ErrPasswordTooLong = fmt.Errorf("auth: password exceeds %d bytes: %w", MaxPasswordBytes, shared.ErrInvalidInput)
)
