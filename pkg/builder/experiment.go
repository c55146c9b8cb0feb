package builder

import (
	"github.com/autolab/resonance/pkg/internal/archive"
	"github.com/autolab/resonance/pkg/internal/experiment"
	"github.com/autolab/resonance/pkg/internal/router"
	"github.com/autolab/resonance/pkg/internal/session"
	"github.com/autolab/resonance/pkg/internal/types"
)

type (
	Controller       = experiment.Controller
	ControllerConfig = experiment.Config
	Router           = types.Router
	Session          = session.Session
	ArchiveStore     = archive.Store
)

// NewSession creates the experiment step state with every step pending.
func NewSession(options ...session.Option) *session.Session {
	return session.NewSession(options...)
}

// SessionWithExperimentID tags the session with the backend's experiment id.
func SessionWithExperimentID(id int) session.Option {
	return session.WithExperimentID(id)
}

// SessionWithStepCount overrides the number of measurement trials.
func SessionWithStepCount(count int) session.Option {
	return session.WithStepCount(count)
}

// NewController wires the workflow components together.
func NewController(cfg experiment.Config, options ...experiment.Option) *experiment.Controller {
	return experiment.NewController(cfg, options...)
}

// ControllerWithLogger attaches loggers to the controller.
func ControllerWithLogger(logger ...types.Logger) experiment.Option {
	return experiment.WithLogger(logger...)
}

// NewRouter creates the inbound message router.
func NewRouter(transport types.Transport, handler types.MessageHandler, options ...router.Option) types.Router {
	return router.NewRouter(transport, handler, options...)
}

// RouterWithLogger attaches loggers to the router.
func RouterWithLogger(logger ...types.Logger) router.Option {
	return router.WithLogger(logger...)
}

// NewArchiveStore creates a gzip snapshot store rooted at dir.
func NewArchiveStore(dir string, options ...archive.Option) *archive.Store {
	return archive.NewStore(dir, options...)
}

// ArchiveWithCompressionLevel overrides the gzip level.
func ArchiveWithCompressionLevel(level int) archive.Option {
	return archive.WithCompressionLevel(level)
}
