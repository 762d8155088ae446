package entitlement

import "errors"

var (
	// ErrMissingDependency indicates New was called without a catalog,
	// billing provider or store.
	ErrMissingDependency = errors.New("entitlement: catalog, billing provider and store are required")
)
