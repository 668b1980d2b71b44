package application

import (
	"flag"
	"os"
	"strings"
)

// AppFlags holds the application startup flags. The config-tagged fields
// flow into the configuration loader as its highest-priority source;
// ConfigDir and Env are consumed before the loader exists.
type AppFlags struct {
	ConfigDir string `config:"-"`
	Env       string `config:"-"`
	LogLevel  string `config:"logger.level"`
	LogDir    string `config:"logger.base_log_dir"`
}

// ParseFlags parses command-line flags and environment variables.
//
// Priority:
//  1. command-line flags --config-dir, --env, --log-level, --log-dir
//  2. environment variables {APP_NAME}_CONFIG_DIR, {APP_NAME}_ENV,
//     {APP_NAME}_LOG_LEVEL, {APP_NAME}_LOG_DIR
//  3. defaults (config values apply when a flag stays empty)
//
// Example:
//
//	flags := application.ParseFlags("event-cli", "../configs/event-cli")
//	// environment variables: EVENT_CLI_CONFIG_DIR, EVENT_CLI_ENV, ...
//	// command line: --env prod --log-level debug
func ParseFlags(appName string, defaultConfigDir string) *AppFlags {
	// Environment variable prefix: uppercase, dashes to underscores
	envPrefix := strings.ToUpper(strings.ReplaceAll(appName, "-", "_"))
	configDirEnvKey := envPrefix + "_CONFIG_DIR"
	envEnvKey := envPrefix + "_ENV"
	logLevelEnvKey := envPrefix + "_LOG_LEVEL"
	logDirEnvKey := envPrefix + "_LOG_DIR"

	var configDir string
	var env string
	var logLevel string
	var logDir string

	flag.StringVar(&configDir, "config-dir", "",
		"configuration directory (default: "+configDirEnvKey+" env var, or "+defaultConfigDir+")")
	flag.StringVar(&env, "env", "",
		"running environment (dev/test/prod, default from "+envEnvKey+" env var)")
	flag.StringVar(&logLevel, "log-level", "",
		"log level (empty keeps the configured value, default from "+logLevelEnvKey+" env var)")
	flag.StringVar(&logDir, "log-dir", "",
		"log directory (empty keeps the configured value, default from "+logDirEnvKey+" env var)")

	flag.Parse()

	envConfigDir := os.Getenv(configDirEnvKey)
	envEnv := os.Getenv(envEnvKey)
	envLogLevel := os.Getenv(logLevelEnvKey)
	envLogDir := os.Getenv(logDirEnvKey)

	// command-line flag > environment variable > default
	finalConfigDir := configDir
	if finalConfigDir == "" {
		if envConfigDir != "" {
			finalConfigDir = envConfigDir
		} else {
			finalConfigDir = defaultConfigDir
		}
	}

	finalEnv := env
	if finalEnv == "" {
		finalEnv = envEnv
	}

	finalLogLevel := logLevel
	if finalLogLevel == "" {
		finalLogLevel = envLogLevel
	}

	finalLogDir := logDir
	if finalLogDir == "" {
		finalLogDir = envLogDir
	}

	// Hand the environment to config.GetEnv
	if finalEnv != "" {
		os.Setenv("APP_ENV", finalEnv)
	}

	return &AppFlags{
		ConfigDir: finalConfigDir,
		Env:       finalEnv,
		LogLevel:  finalLogLevel,
		LogDir:    finalLogDir,
	}
}
