// FILE: sensormerge/src/internal/core/const.go
package core

// Field names with meaning to the merger
const (
	FieldTimestamp = "timestamp"
	FieldSensor    = "sensor"
)

// Names used for the two merge inputs in logs and errors
const (
	InputPrimary   = "primary"
	InputSecondary = "secondary"
)
