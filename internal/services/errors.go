package services

import "errors"

// Sentinel errors the handlers translate into HTTP statuses.
var (
	// ErrInvalidCredentials hides whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned on registration with a known email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCart is returned when checkout receives an empty or
	// malformed cart.
	ErrInvalidCart = errors.New("cart is empty or malformed")

	// ErrInvalidResetToken covers unknown and expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrImmutable is returned for any attempt to modify a ledger entry.
	ErrImmutable = errors.New("transaction logs are immutable and cannot be updated")

	// ErrValidation wraps human-readable field validation failures.
	ErrValidation = errors.New("validation failed")
)
