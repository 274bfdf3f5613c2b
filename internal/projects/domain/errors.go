package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRecord   = errors.New("invalid project record")
)
