package logger

import (
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap/zapcore"
)

// Config is the per-module logger configuration resolved by the Manager.
type Config struct {
	Level       string
	Development bool
	Encoding    string // json or console

	// Set by the Manager, not by callers.
	moduleName string
	logDir     string

	EnableFile    bool
	EnableConsole bool

	// File name composition.
	EnableLevelInFilename    bool
	EnableSequenceInFilename bool
	SequenceNumber           string
	EnableDateInFilename     bool
	DateFormat               string

	// Rotation (lumberjack).
	MaxSize    int // MB per file
	MaxBackups int
	MaxAge     int // days
	Compress   bool

	EnableCaller     bool
	EnableStacktrace bool
	StacktraceLevel  string
	StacktraceDepth  int // 0 = unlimited
}

// ManagerConfig is the manager-wide configuration shared by all modules.
type ManagerConfig struct {
	BaseLogDir               string `mapstructure:"base_log_dir"`
	Level                    string `mapstructure:"level"`
	AppName                  string `mapstructure:"app_name"`
	Encoding                 string `mapstructure:"encoding"`
	EnableConsole            bool   `mapstructure:"enable_console"`
	EnableLevelInFilename    bool   `mapstructure:"enable_level_in_filename"`
	EnableSequenceInFilename bool   `mapstructure:"enable_sequence_in_filename"`
	EnableDateInFilename     bool   `mapstructure:"enable_date_in_filename"`
	DateFormat               string `mapstructure:"date_format"`
	MaxSize                  int    `mapstructure:"max_size"`
	MaxBackups               int    `mapstructure:"max_backups"`
	MaxAge                   int    `mapstructure:"max_age"`
	Compress                 bool   `mapstructure:"compress"`
	EnableCaller             bool   `mapstructure:"enable_caller"`
	EnableStacktrace         bool   `mapstructure:"enable_stacktrace"`
	StacktraceLevel          string `mapstructure:"stacktrace_level"`
	StacktraceDepth          int    `mapstructure:"stacktrace_depth"`
	LoggerName               string `mapstructure:"logger_name"`
	ModuleNumber             int    `mapstructure:"module_number"`

	EnableTraceID    bool   `mapstructure:"enable_trace_id"`
	TraceIDKey       string `mapstructure:"trace_id_key"`
	TraceIDFieldName string `mapstructure:"trace_id_field_name"`
}

// DefaultManagerConfig returns the configuration used when nothing is set.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:               "logs",
		LoggerName:               "logger",
		Level:                    "info",
		Encoding:                 "json",
		EnableConsole:            true,
		EnableLevelInFilename:    true,
		EnableSequenceInFilename: false,
		EnableDateInFilename:     true,
		DateFormat:               "2006-01-02",
		MaxSize:                  100,
		MaxBackups:               3,
		MaxAge:                   28,
		Compress:                 true,
		EnableCaller:             true,
		EnableStacktrace:         true,
		StacktraceLevel:          "error",
		StacktraceDepth:          5,
		EnableTraceID:            true,
		TraceIDKey:               "trace_id",
		TraceIDFieldName:         "trace_id",
	}
}

// ApplyDefaults fills zero-valued fields in place. Booleans keep their
// value: false cannot be told apart from "not configured".
func (c *ManagerConfig) ApplyDefaults() {
	defaults := DefaultManagerConfig()

	if c.BaseLogDir == "" {
		c.BaseLogDir = defaults.BaseLogDir
	}
	if c.ModuleNumber == 0 {
		c.ModuleNumber = 50
	}
	if c.LoggerName == "" {
		c.LoggerName = defaults.LoggerName
	}
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if c.DateFormat == "" {
		c.DateFormat = defaults.DateFormat
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = defaults.StacktraceLevel
	}
	if c.TraceIDKey == "" {
		c.TraceIDKey = defaults.TraceIDKey
	}
	if c.TraceIDFieldName == "" {
		c.TraceIDFieldName = defaults.TraceIDFieldName
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
}

// Validate checks a ManagerConfig after defaults were applied.
func (c ManagerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required,
			validation.In("debug", "info", "warn", "error", "fatal")),
		validation.Field(&c.Encoding, validation.Required,
			validation.In("json", "console")),
		validation.Field(&c.MaxSize, validation.Min(1), validation.Max(10000)),
		validation.Field(&c.MaxBackups, validation.Min(0), validation.Max(1000)),
		validation.Field(&c.MaxAge, validation.Min(0), validation.Max(3650)),
		validation.Field(&c.StacktraceLevel,
			validation.In("debug", "info", "warn", "error", "fatal")),
	)
}

// ParseLevel maps a level string to the zapcore level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c Config) getModuleLogDir() string {
	if c.moduleName == "" {
		return c.logDir
	}
	return filepath.Join(c.logDir, c.moduleName)
}

func (c Config) getInfoFilePath() string {
	return c.buildFilePath("info")
}

func (c Config) getErrorFilePath() string {
	return c.buildFilePath("error")
}

// buildFilePath composes logs/<module>/<module>[-level][-seq][-date].log.
func (c Config) buildFilePath(level string) string {
	parts := []string{c.moduleName}

	if c.EnableLevelInFilename {
		parts = append(parts, level)
	}
	if c.EnableSequenceInFilename && c.SequenceNumber != "" {
		parts = append(parts, c.SequenceNumber)
	}
	if c.EnableDateInFilename {
		date := time.Now().Format(c.DateFormat)
		parts = append(parts, date)
	}

	filename := strings.Join(parts, "-")
	return filepath.Join(c.getModuleLogDir(), filename+".log")
}
