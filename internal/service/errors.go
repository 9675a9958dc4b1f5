package service

import "errors"

var (
	// ErrEmailTaken is returned when registering an e-mail that already
	// has a record.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	// The same error covers both cases so login does not leak which
	// e-mails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when an authenticated request references
	// a record that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken is returned when a reset token does not match
	// any record.
	ErrInvalidResetToken = errors.New("token inválido")

	// ErrExpiredResetToken is returned when a reset token matched but is
	// past its expiry.
	ErrExpiredResetToken = errors.New("token expirado, solicite uma nova redefinição")

	// ErrAnalysisInFlight is returned when a run is already active for
	// the user.
	ErrAnalysisInFlight = errors.New("analysis already in progress")

	// ErrNoAnalysis is returned when a diagnostic is requested before any
	// run has completed.
	ErrNoAnalysis = errors.New("no analysis available")
)
