package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns one zap.Logger per module name, created lazily, writing to
// per-module rotated files plus an optional console core.
type Manager struct {
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger
	zapLoggers map[string]*zap.Logger
	writers    map[string][]*lumberjack.Logger
	mu         sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager builds an independent Manager. Zero-valued fields of cfg are
// filled with defaults.
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger, cfg.ModuleNumber),
		zapLoggers: make(map[string]*zap.Logger, cfg.ModuleNumber),
		writers:    make(map[string][]*lumberjack.Logger, cfg.ModuleNumber),
	}
}

// InitManager initializes the global manager exactly once.
func InitManager(cfg ManagerConfig) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// GetLogger returns the CtxZapLogger for moduleName, creating it on first
// use. The returned logger already carries the module field.
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if logger, exists := m.loggers[moduleName]; exists {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-checked: another goroutine may have created it meanwhile.
	if logger, exists := m.loggers[moduleName]; exists {
		return logger
	}

	cfg := m.buildModuleConfig(moduleName)
	zapLogger := m.createLogger(cfg)
	zapLoggerWithModule := zapLogger.With(zap.String("module", moduleName))

	// CallerSkip jumps over the CtxZapLogger wrapper frame.
	zapLoggerWithSkip := zapLoggerWithModule.WithOptions(zap.AddCallerSkip(1))

	ctxLogger := &CtxZapLogger{
		base:   zapLoggerWithSkip,
		module: moduleName,
		config: &m.baseConfig,
	}

	m.loggers[moduleName] = ctxLogger
	m.zapLoggers[moduleName] = zapLoggerWithModule

	return ctxLogger
}

func (m *Manager) buildModuleConfig(moduleName string) Config {
	return Config{
		Level:                    m.baseConfig.Level,
		Development:              false,
		Encoding:                 m.baseConfig.Encoding,
		moduleName:               moduleName,
		logDir:                   m.baseConfig.BaseLogDir,
		EnableFile:               true,
		EnableConsole:            m.baseConfig.EnableConsole,
		EnableLevelInFilename:    m.baseConfig.EnableLevelInFilename,
		EnableSequenceInFilename: m.baseConfig.EnableSequenceInFilename,
		SequenceNumber:           "",
		EnableDateInFilename:     m.baseConfig.EnableDateInFilename,
		DateFormat:               m.baseConfig.DateFormat,
		MaxSize:                  m.baseConfig.MaxSize,
		MaxBackups:               m.baseConfig.MaxBackups,
		MaxAge:                   m.baseConfig.MaxAge,
		Compress:                 m.baseConfig.Compress,
		EnableCaller:             m.baseConfig.EnableCaller,
		EnableStacktrace:         m.baseConfig.EnableStacktrace,
		StacktraceLevel:          m.baseConfig.StacktraceLevel,
	}
}

func (m *Manager) createLogger(cfg Config) *zap.Logger {
	encoder := createEncoder(cfg)
	var cores []zapcore.Core
	var writers []*lumberjack.Logger

	if cfg.EnableConsole {
		consoleCore := zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stdout),
			ParseLevel(cfg.Level),
		)
		cores = append(cores, consoleCore)
	}

	if cfg.EnableFile {
		// Info file takes [configured level, error); the error file takes
		// error and above, so failures stay greppable on their own.
		infoPath := cfg.getInfoFilePath()
		infoWriter, infoLumber := createFileWriter(infoPath, cfg)
		writers = append(writers, infoLumber)

		configuredLevel := ParseLevel(cfg.Level)
		infoCore := zapcore.NewCore(
			encoder,
			infoWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= configuredLevel && lvl < zapcore.ErrorLevel
			}),
		)
		cores = append(cores, infoCore)

		errorPath := cfg.getErrorFilePath()
		errorWriter, errorLumber := createFileWriter(errorPath, cfg)
		writers = append(writers, errorLumber)
		errorCore := zapcore.NewCore(
			encoder,
			errorWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			}),
		)
		cores = append(cores, errorCore)
	}

	core := zapcore.NewTee(cores...)

	opts := []zap.Option{}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	// Stacktraces are attached by CtxZapLogger.ErrorCtx with a bounded
	// depth instead of zap.AddStacktrace.

	if len(writers) > 0 {
		m.writers[cfg.moduleName] = writers
	}

	return zap.New(core, opts...)
}

// CloseAll flushes buffers and closes every file handle.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, logger := range m.zapLoggers {
		_ = logger.Sync()
	}

	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
}

// ReloadConfig validates newCfg and rebuilds every logger against it.
func (m *Manager) ReloadConfig(newCfg ManagerConfig) error {
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("invalid logger config: %w", err)
	}

	m.mu.Lock()

	oldLevel := m.baseConfig.Level
	oldEncoding := m.baseConfig.Encoding

	for _, logger := range m.zapLoggers {
		_ = logger.Sync()
	}
	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
	m.baseConfig = newCfg

	m.mu.Unlock()

	// Log after releasing the lock; Debug below re-enters GetLogger.
	if oldLevel != newCfg.Level {
		m.Debug("logger", "log level updated",
			zap.String("old_level", oldLevel),
			zap.String("new_level", newCfg.Level))
	}
	if oldEncoding != newCfg.Encoding {
		m.Debug("logger", "log encoding updated",
			zap.String("old_encoding", oldEncoding),
			zap.String("new_encoding", newCfg.Encoding))
	}

	return nil
}

// Info logs at info level for the given module.
func (m *Manager) Info(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).InfoCtx(context.Background(), msg, fields...)
}

// Debug logs at debug level for the given module.
func (m *Manager) Debug(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).DebugCtx(context.Background(), msg, fields...)
}

// Warn logs at warn level for the given module.
func (m *Manager) Warn(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).WarnCtx(context.Background(), msg, fields...)
}

// Error logs at error level for the given module.
func (m *Manager) Error(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).ErrorCtx(context.Background(), msg, fields...)
}

// WithFields returns a module logger with preset fields.
func (m *Manager) WithFields(module string, fields ...zap.Field) *CtxZapLogger {
	return m.GetLogger(module).With(fields...)
}

// InfoCtx logs at info level, extracting the trace id from ctx.
func (m *Manager) InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).InfoCtx(ctx, msg, fields...)
}

// DebugCtx logs at debug level, extracting the trace id from ctx.
func (m *Manager) DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).DebugCtx(ctx, msg, fields...)
}

// WarnCtx logs at warn level, extracting the trace id from ctx.
func (m *Manager) WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).WarnCtx(ctx, msg, fields...)
}

// ErrorCtx logs at error level, extracting the trace id from ctx.
func (m *Manager) ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).ErrorCtx(ctx, msg, fields...)
}

func createEncoder(cfg Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	switch cfg.Encoding {
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return zapcore.NewJSONEncoder(encoderConfig)
	}
}

func createFileWriter(filename string, cfg Config) (zapcore.WriteSyncer, *lumberjack.Logger) {
	dir := filepath.Dir(filename)
	os.MkdirAll(dir, 0755)

	lumberLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	return zapcore.AddSync(lumberLogger), lumberLogger
}

// GetLogger returns the global manager's logger for moduleName,
// initializing the global manager with defaults when needed.
func GetLogger(moduleName string) *CtxZapLogger {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	return globalManager.GetLogger(moduleName)
}

// CloseAll closes the global manager's loggers.
func CloseAll() {
	if globalManager == nil {
		return
	}
	globalManager.CloseAll()
}

// ReloadConfig reloads the global manager configuration.
func ReloadConfig(newCfg ManagerConfig) error {
	if globalManager == nil {
		return fmt.Errorf("logger manager not initialized")
	}
	return globalManager.ReloadConfig(newCfg)
}

// Info logs at info level through the global manager.
func Info(module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.Info(module, msg, fields...)
}

// Debug logs at debug level through the global manager.
func Debug(module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.Debug(module, msg, fields...)
}

// Warn logs at warn level through the global manager.
func Warn(module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.Warn(module, msg, fields...)
}

// Error logs at error level through the global manager.
func Error(module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.Error(module, msg, fields...)
}

// WithFields returns a module logger with preset fields from the global
// manager.
func WithFields(module string, fields ...zap.Field) *CtxZapLogger {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	return globalManager.WithFields(module, fields...)
}

// InfoCtx logs at info level through the global manager.
func InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.InfoCtx(ctx, module, msg, fields...)
}

// DebugCtx logs at debug level through the global manager.
func DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.DebugCtx(ctx, module, msg, fields...)
}

// WarnCtx logs at warn level through the global manager.
func WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.WarnCtx(ctx, module, msg, fields...)
}

// ErrorCtx logs at error level through the global manager.
func ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	globalManager.ErrorCtx(ctx, module, msg, fields...)
}
