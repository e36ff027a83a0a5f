package services

import "errors"

// Domain errors returned by the auth and admin services. Handlers map these
// to HTTP status codes with errors.Is; anything else surfaces as a generic
// server error.
var (
	// ErrInvalidCredentials covers every login failure: unknown email or
	// wrong password. The message is deliberately identical for both.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an existing email
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidRole is returned for self-signup with a role other than
	// USER or ORGANIZER
	ErrInvalidRole = errors.New("role must be USER or ORGANIZER")

	// ErrNotFound is returned when the target account does not exist
	ErrNotFound = errors.New("account not found")

	// ErrLastAdminDemotion guards the invariant that at least one admin
	// account always exists
	ErrLastAdminDemotion = errors.New("cannot demote the last admin")

	// ErrLastAdminDeletion guards the same invariant on deletion
	ErrLastAdminDeletion = errors.New("cannot delete the last admin")

	// ErrSelfDeletion is returned when an admin targets their own account
	ErrSelfDeletion = errors.New("cannot delete your own account")
)
