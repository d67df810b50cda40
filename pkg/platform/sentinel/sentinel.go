package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and gateways return these
// (optionally wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store or registry
//   - ErrConflict: a concurrent writer created the record first
//   - ErrClosed: the work item exists but is no longer open
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrClosed      = errors.New("closed")
	ErrUnavailable = errors.New("unavailable")
)
