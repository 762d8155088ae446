package catalog

import "errors"

var (
	ErrFailedToLoadCatalog = errors.New("failed to load feature catalog")
	ErrInvalidCatalog      = errors.New("invalid feature catalog configuration")
)
