package domain

import "errors"

// Organization errors
var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrOrganizationNameExists = errors.New("organization name already exists")
	ErrInvalidEntityID        = errors.New("invalid entity ID format")
	ErrEntityIDExhausted      = errors.New("unable to generate unique entity ID")
)

// Admin errors
var (
	ErrAdminNotFound  = errors.New("admin not found")
	ErrUsernameExists = errors.New("username already exists")
)
