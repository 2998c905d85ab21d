package repository

import "errors"

// ErrDuplicateKey wraps a unique index violation reported by MongoDB.
var ErrDuplicateKey = errors.New("duplicate key")
