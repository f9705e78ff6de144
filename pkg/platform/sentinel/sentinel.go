package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, external clients and
// infrastructure layers return these (optionally wrapped) so services can
// translate them into domain errors.
//
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrNotModified: an upstream source reports no changes since the last fetch
//   - ErrUnavailable: upstream service or store temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrNotModified = errors.New("not modified")
	ErrUnavailable = errors.New("unavailable")
)
