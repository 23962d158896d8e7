package service

import (
	"errors"
	"go-rango-app/internal/data"
)

var (
	// ErrRecordNotFound is returned when a category or page does not exist.
	ErrRecordNotFound = data.ErrRecordNotFound
	// ErrFailedValidation is returned when a bound form has errors. The
	// errors themselves are recorded on the form.
	ErrFailedValidation = errors.New("failed validation")
	// ErrInvalidCredentials is returned when no account matches a
	// username and password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingIdentity is returned for ID token claims without an issuer
	// or subject.
	ErrMissingIdentity = errors.New("id token has no issuer or subject")
)
