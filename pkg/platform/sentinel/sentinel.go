package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store
// - ErrConflict: a row for the key already exists
// - ErrPreconditionFailed: conditional update matched no row
// - ErrNoMatch: identity verification found no matching template
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNoMatch            = errors.New("no match")
	ErrUnavailable        = errors.New("unavailable")
)
