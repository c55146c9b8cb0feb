package types

import "context"

// Router resolves raw envelopes into typed messages and hands each to exactly
// one MessageHandler method. The transport and handler are bound at
// construction. Unknown types are logged at warning level and otherwise
// ignored; dispatch never panics the session.
type Router interface {
	ConnectLogger(...Logger)
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})

	// Run drains the transport's inbound queue until it closes or ctx is
	// done. Envelopes are dispatched synchronously in arrival order.
	Run(ctx context.Context)
}
