package telemetry

import "errors"

var (
	ErrNilStore  = errors.New("metric store is nil")
	ErrStoreRead = errors.New("failed to read metric records")
)
