// Package repository defines the storage contract consumed by the
// services and the sentinel errors implementations report through.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")
