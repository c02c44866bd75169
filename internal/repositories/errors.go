package repositories

import "errors"

// ErrNotFound is returned when a record does not exist. Implementations
// wrap it with the entity and id for context; callers test it with
// errors.Is.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint is violated.
var ErrDuplicate = errors.New("duplicate record")
