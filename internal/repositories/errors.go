package repositories

import "errors"

// Sentinel errors shared by all repository implementations. GORM drivers
// report constraint violations differently; implementations translate the
// driver error into these so services can use errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
