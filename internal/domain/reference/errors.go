package reference

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("a record with this name already exists")
	ErrInvalidStatus = errors.New("status must be active or inactive")
)
