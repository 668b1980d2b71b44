package logger

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestManagerConfig_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    ManagerConfig
		expected ManagerConfig
	}{
		{
			name:  "empty config fills every default",
			input: ManagerConfig{},
			expected: ManagerConfig{
				BaseLogDir:       "logs",
				LoggerName:       "logger",
				Level:            "info",
				Encoding:         "json",
				DateFormat:       "2006-01-02",
				MaxSize:          100,
				MaxBackups:       3,
				MaxAge:           28,
				StacktraceLevel:  "error",
				TraceIDKey:       "trace_id",
				TraceIDFieldName: "trace_id",
				ModuleNumber:     50,
				// Booleans keep their zero value.
				EnableConsole:         false,
				EnableLevelInFilename: false,
				EnableDateInFilename:  false,
				Compress:              false,
				EnableCaller:          false,
				EnableStacktrace:      false,
				EnableTraceID:         false,
			},
		},
		{
			name: "partial config keeps user values",
			input: ManagerConfig{
				Level:   "debug",
				MaxSize: 200,
			},
			expected: ManagerConfig{
				BaseLogDir:       "logs",
				LoggerName:       "logger",
				Level:            "debug",
				Encoding:         "json",
				DateFormat:       "2006-01-02",
				MaxSize:          200,
				MaxBackups:       3,
				MaxAge:           28,
				StacktraceLevel:  "error",
				TraceIDKey:       "trace_id",
				TraceIDFieldName: "trace_id",
				ModuleNumber:     50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.ApplyDefaults()
			if tt.input != tt.expected {
				t.Errorf("ApplyDefaults() = %+v, want %+v", tt.input, tt.expected)
			}
		})
	}
}

func TestManagerConfig_Validate(t *testing.T) {
	valid := DefaultManagerConfig()
	if err := valid.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ManagerConfig)
	}{
		{"unknown level", func(c *ManagerConfig) { c.Level = "verbose" }},
		{"unknown encoding", func(c *ManagerConfig) { c.Encoding = "xml" }},
		{"max size too large", func(c *ManagerConfig) { c.MaxSize = 20000 }},
		{"negative max backups", func(c *ManagerConfig) { c.MaxBackups = -1 }},
		{"max age too large", func(c *ManagerConfig) { c.MaxAge = 9999 }},
		{"unknown stacktrace level", func(c *ManagerConfig) { c.StacktraceLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultManagerConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestConfig_BuildFilePath(t *testing.T) {
	base := Config{
		moduleName: "dispatch",
		logDir:     "logs",
	}

	t.Run("bare filename", func(t *testing.T) {
		cfg := base
		got := cfg.buildFilePath("info")
		want := filepath.Join("logs", "dispatch", "dispatch.log")
		if got != want {
			t.Errorf("buildFilePath = %q, want %q", got, want)
		}
	})

	t.Run("level in filename", func(t *testing.T) {
		cfg := base
		cfg.EnableLevelInFilename = true
		got := cfg.buildFilePath("error")
		want := filepath.Join("logs", "dispatch", "dispatch-error.log")
		if got != want {
			t.Errorf("buildFilePath = %q, want %q", got, want)
		}
	})

	t.Run("level and date", func(t *testing.T) {
		cfg := base
		cfg.EnableLevelInFilename = true
		cfg.EnableDateInFilename = true
		cfg.DateFormat = "2006-01-02"
		today := time.Now().Format("2006-01-02")
		got := cfg.buildFilePath("info")
		want := filepath.Join("logs", "dispatch", "dispatch-info-"+today+".log")
		if got != want {
			t.Errorf("buildFilePath = %q, want %q", got, want)
		}
	})

	t.Run("sequence in filename", func(t *testing.T) {
		cfg := base
		cfg.EnableLevelInFilename = true
		cfg.EnableSequenceInFilename = true
		cfg.SequenceNumber = "01"
		got := cfg.buildFilePath("info")
		want := filepath.Join("logs", "dispatch", "dispatch-info-01.log")
		if got != want {
			t.Errorf("buildFilePath = %q, want %q", got, want)
		}
	})

	t.Run("empty module falls back to base dir", func(t *testing.T) {
		cfg := Config{logDir: "logs"}
		got := cfg.getModuleLogDir()
		if got != "logs" {
			t.Errorf("getModuleLogDir = %q, want %q", got, "logs")
		}
	})
}

func TestConfig_FilePathHelpers(t *testing.T) {
	cfg := Config{
		moduleName:            "resolver",
		logDir:                "logs",
		EnableLevelInFilename: true,
	}

	info := cfg.getInfoFilePath()
	if info != filepath.Join("logs", "resolver", "resolver-info.log") {
		t.Errorf("unexpected info path %q", info)
	}

	errPath := cfg.getErrorFilePath()
	if errPath != filepath.Join("logs", "resolver", "resolver-error.log") {
		t.Errorf("unexpected error path %q", errPath)
	}
}
