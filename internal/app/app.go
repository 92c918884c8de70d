package app

import (
	"os"
	"path/filepath"
)

// Application owns the long-lived components and wires them together. The
// registry is constructed here, once, and handed to everything that needs
// it; nothing reaches for hidden shared state.
type Application struct {
	Config   Config
	Logger   *Logger
	Registry *Registry
	Runner   *Runner
	Gate     *PermissionGate
	Client   ChatCompleter
	MockMode bool
}

func NewApplication(cfg Config, mockMode bool) *Application {
	logger := NewLogger(DefaultLogWriter())
	registry := OpenRegistry(cfg.RegistryPath, logger)
	runner := NewRunner(logger, registry, filepath.Join(os.TempDir(), "hwagent", "job-logs"))
	gate := NewPermissionGate(cfg.SafeMode, nil, logger)

	var client ChatCompleter
	if mockMode {
		client = NewMockChatClient()
	} else {
		client = NewChatClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxTokens)
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Runner:   runner,
		Gate:     gate,
		Client:   client,
		MockMode: mockMode,
	}
}

// NewSession starts a conversation bound to this application's components.
func (a *Application) NewSession() *Session {
	toolbox := &Toolbox{
		Registry: a.Registry,
		Runner:   a.Runner,
		Gate:     a.Gate,
		Logger:   a.Logger,
		Config:   a.Config,
	}
	return NewSession(a.Client, toolbox, a.Logger)
}

// Close flushes the registry. Background jobs keep running; only the
// bookkeeping is torn down.
func (a *Application) Close() error {
	return a.Registry.Close()
}
