// Package repository implements data access over database/sql. Shared
// sentinel errors live here so handlers can map failure scenarios to HTTP
// statuses without inspecting driver errors; entity-specific not-found
// sentinels live next to their repositories.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed because
// of dependent state, such as deleting a vehicle that still has requests.
// Handlers translate this into 409.
var ErrConflict = errors.New("conflict")
