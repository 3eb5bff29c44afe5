package domain

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrUpdateNotFound     = errors.New("progress update not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid project status")
	ErrNothingToExport    = errors.New("project has no updates to export")
)
