// FILE: sensormerge/src/internal/core/errors.go
package core

import "errors"

var (
	ErrNotObject        = errors.New("entry is not a JSON object")
	ErrMissingSensor    = errors.New("entry has no sensor field")
	ErrInvalidSensor    = errors.New("sensor must be a non-empty string")
	ErrInvalidTimestamp = errors.New("timestamp is not comparable")
)
