package types

import "time"

// Sensor is a callback registry observing one component's lifecycle and data
// flow. Components invoke hooks at significant transitions; user code registers
// callbacks to drive UI state, notifications, or test assertions without the
// component knowing about either.
type Sensor[T any] interface {
	ConnectLogger(...Logger)

	// GetComponentMetadata retrieves metadata about the Sensor, including identifiers like name and ID,
	// useful for logging and monitoring purposes.
	GetComponentMetadata() ComponentMetadata

	// SetComponentMetadata sets the metadata for the Sensor, such as its name and ID.
	SetComponentMetadata(name string, id string)

	// NotifyLoggers sends a formatted log message to all attached loggers at a specified log level.
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})

	RegisterOnStart(...func(ComponentMetadata))
	InvokeOnStart(ComponentMetadata)

	RegisterOnStop(...func(ComponentMetadata))
	InvokeOnStop(ComponentMetadata)

	// Element hooks fire once per processed element: a decoded frame for the
	// transport, a recorded sample for the rangefinder, a sent payload for the
	// recorder.
	RegisterOnElementProcessed(...func(ComponentMetadata, T))
	InvokeOnElementProcessed(ComponentMetadata, T)

	RegisterOnError(...func(ComponentMetadata, error))
	InvokeOnError(ComponentMetadata, error)

	// Transport reconnect lifecycle.
	RegisterOnReconnectAttempt(...func(ComponentMetadata, int, time.Duration))
	InvokeOnReconnectAttempt(ComponentMetadata, int, time.Duration)

	// InvokeOnConnectionLost fires exactly once when the reconnect policy is
	// exhausted; the int is the number of attempts made.
	RegisterOnConnectionLost(...func(ComponentMetadata, int))
	InvokeOnConnectionLost(ComponentMetadata, int)

	// Recording indicator transitions (true = recording).
	RegisterOnRecordingStateChange(...func(ComponentMetadata, bool))
	InvokeOnRecordingStateChange(ComponentMetadata, bool)

	// InvokeOnAutoStop fires when an out-of-range reading terminates a
	// recording, carrying the offending element.
	RegisterOnAutoStop(...func(ComponentMetadata, T))
	InvokeOnAutoStop(ComponentMetadata, T)

	// InvokeOnDrain fires when a recording buffer is consumed; the int is the
	// drained sample count.
	RegisterOnDrain(...func(ComponentMetadata, int))
	InvokeOnDrain(ComponentMetadata, int)

	// InvokeOnSensorError fires for the device's defined error sentinel.
	RegisterOnSensorError(...func(ComponentMetadata, Reading))
	InvokeOnSensorError(ComponentMetadata, Reading)
}
