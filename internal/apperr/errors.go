package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRename = errors.New("invalid rename request")
)
