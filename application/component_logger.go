package application

import (
	"context"

	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/logger"
)

// LoggerComponent wraps a logger.Manager in the component lifecycle.
type LoggerComponent struct {
	manager    *logger.Manager
	coreLogger *logger.CtxZapLogger
}

// NewLoggerComponent creates the logger component.
func NewLoggerComponent() *LoggerComponent {
	return &LoggerComponent{}
}

// Name returns the component name.
func (l *LoggerComponent) Name() string {
	return component.ComponentLogger
}

// DependsOn declares the config dependency.
func (l *LoggerComponent) DependsOn() []string {
	return []string{component.ComponentConfig}
}

// Init builds the manager from the "logger" section, falling back to
// defaults when the section is absent or malformed.
func (l *LoggerComponent) Init(ctx context.Context, loader component.ConfigLoader) error {
	var loggerCfg *logger.ManagerConfig
	if err := loader.Unmarshal("logger", &loggerCfg); err == nil && loggerCfg != nil {
		l.manager = logger.NewManager(*loggerCfg)
	} else {
		l.manager = logger.NewManager(logger.DefaultManagerConfig())
	}

	l.coreLogger = l.manager.GetLogger("flight")

	return nil
}

// Start is a no-op; loggers need no background work.
func (l *LoggerComponent) Start(ctx context.Context) error {
	return nil
}

// Stop flushes and closes every module logger.
func (l *LoggerComponent) Stop(ctx context.Context) error {
	if l.coreLogger != nil {
		l.coreLogger.DebugCtx(ctx, "✅ Application closed")
	}
	if l.manager != nil {
		l.manager.CloseAll()
	}
	return nil
}

// GetManager returns the logger manager.
func (l *LoggerComponent) GetManager() *logger.Manager {
	return l.manager
}

// GetLogger returns the core logger instance.
func (l *LoggerComponent) GetLogger() *logger.CtxZapLogger {
	return l.coreLogger
}

// SetLogger injects an existing logger (DI mode reuses the provider's).
func (l *LoggerComponent) SetLogger(log *logger.CtxZapLogger) {
	l.coreLogger = log
}
