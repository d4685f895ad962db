package app

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"stt-gateway/internal/config"
	"stt-gateway/internal/observability/logging"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	ready atomic.Bool
}

// New constructs a new Application from the provided configuration. The
// global logger must already be initialised.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}

	a.Logger.Info().
		Str("principal", cfg.Service.Principal).
		Str("sttProvider", cfg.STT.Provider).
		Msg("STT gateway application created")
	return a
}

// Start marks the service ready to take sessions.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.ready.Store(true)
	a.Logger.Info().
		Str("method", "Start").
		Time("startupTime", a.StartupTime).
		Msg("STT gateway starting")
	return nil
}

// Ready reports whether new sessions are accepted.
func (a *Application) Ready() bool {
	return a.ready.Load()
}

// Uptime returns the time since Start.
func (a *Application) Uptime() time.Duration {
	if a.StartupTime.IsZero() {
		return 0
	}
	return time.Since(a.StartupTime)
}

// Shutdown stops reporting readiness.
func (a *Application) Shutdown() {
	a.ready.Store(false)
	a.Logger.Info().
		Str("method", "Shutdown").
		Dur("uptime", a.Uptime()).
		Msg("STT gateway shutting down")
}
