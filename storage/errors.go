package storage

import "github.com/pkg/errors"

// ErrNotFound is returned when a requested item does not exist in the store.
var ErrNotFound = errors.New("not found")
