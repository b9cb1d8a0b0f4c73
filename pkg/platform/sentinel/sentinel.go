package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: a uniqueness guard rejected the write (e.g. second open session)
// - ErrInvalidState: record is in the wrong state for the operation (e.g. already closed)
// - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
