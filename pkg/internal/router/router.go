// Package router drains the transport's inbound envelope queue and resolves
// each frame into a typed handler call. Unknown and malformed frames are
// logged and skipped; a session never dies because of one bad frame.
package router

import (
	"context"
	"errors"
	"sync"

	"github.com/autolab/resonance/pkg/internal/codec"
	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
)

// Router delivers envelopes from a transport to a MessageHandler.
type Router struct {
	componentMetadata types.ComponentMetadata

	handler   types.MessageHandler
	transport types.Transport

	loggersLock sync.Mutex
	loggers     []types.Logger
}

// Option configures a Router at construction.
type Option func(*Router)

// WithLogger attaches loggers to the router.
func WithLogger(logger ...types.Logger) Option {
	return func(r *Router) {
		r.ConnectLogger(logger...)
	}
}

// NewRouter builds a router delivering transport frames to handler.
func NewRouter(transport types.Transport, handler types.MessageHandler, options ...Option) *Router {
	r := &Router{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "MESSAGE_ROUTER",
		},
		handler:   handler,
		transport: transport,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run drains the inbound queue until it closes or ctx is done. Each envelope
// is dispatched synchronously so handler calls for one connection stay in
// arrival order.
func (r *Router) Run(ctx context.Context) {
	inbound := r.transport.Inbound()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-inbound:
			if !ok {
				return
			}
			r.dispatch(ctx, env)
		}
	}
}

func (r *Router) dispatch(ctx context.Context, env types.Envelope) {
	err := codec.Dispatch(ctx, env, r.handler)
	switch {
	case err == nil:
	case errors.Is(err, codec.ErrUnknownType):
		r.NotifyLoggers(types.WarnLevel, "Dispatch: ignoring unknown message type",
			"component", r.componentMetadata.ID, "messageType", env.Type)
	default:
		r.NotifyLoggers(types.WarnLevel, "Dispatch: dropping undecodable frame",
			"component", r.componentMetadata.ID, "messageType", env.Type, "error", err)
	}
}

// ConnectLogger attaches one or more loggers.
func (r *Router) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	r.loggersLock.Lock()
	r.loggers = append(r.loggers, loggers...)
	r.loggersLock.Unlock()
}

// GetComponentMetadata returns metadata (ID, Name, Type).
func (r *Router) GetComponentMetadata() types.ComponentMetadata {
	return r.componentMetadata
}

// SetComponentMetadata updates the name and id.
func (r *Router) SetComponentMetadata(name string, id string) {
	r.componentMetadata.Name = name
	r.componentMetadata.ID = id
}

// NotifyLoggers logs a message to all attached loggers.
func (r *Router) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	r.loggersLock.Lock()
	loggers := append([]types.Logger{}, r.loggers...)
	r.loggersLock.Unlock()

	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}
