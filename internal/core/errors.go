package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is returned when the caller supplied no handle.
	ErrUsage = errors.New("usage error")
	// ErrStoreUnavailable wraps every graph or document store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeError(store, stage string, err error) error {
	return fmt.Errorf("%w: %s store: %s: %w", ErrStoreUnavailable, store, stage, err)
}
