package services

import "errors"

// Sentinel errors surfaced to handlers, which map them to HTTP status codes.
// The strings double as stable API error codes.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInactive           = errors.New("account_inactive")
	ErrNotFound           = errors.New("not_found")
	ErrEditBlocked        = errors.New("edit_blocked")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRecord      = errors.New("invalid_record")
	ErrProfileExists      = errors.New("profile_exists")
	ErrDuplicateUsername  = errors.New("duplicate_username")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrDuplicateRegdno    = errors.New("duplicate_regdno")
	ErrDuplicateCode      = errors.New("duplicate_code")
	ErrDepartmentInUse    = errors.New("department_in_use")
	ErrUnknownRole        = errors.New("unknown_role")
)
