// CLIApplication is the CLI application type (composes BaseApplication).
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLIApplication combines the base framework with cobra command execution.
type CLIApplication struct {
	*BaseApplication

	rootCmd *cobra.Command
}

// NewCLI creates a CLI application instance.
// configPath: configuration directory (e.g. ../configs/event-cli)
// configPrefix: environment variable prefix (e.g. "APP")
// rootCmd: cobra root command
func NewCLI(configPath, configPrefix string, rootCmd *cobra.Command) *CLIApplication {
	if configPath == "" {
		configPath = "../configs" // defensive default, not recommended
	}
	if configPrefix == "" {
		configPrefix = "APP"
	}

	baseApp := NewBase(configPath, configPrefix, nil)

	return &CLIApplication{
		BaseApplication: baseApp,
		rootCmd:         rootCmd,
	}
}

// NewCLIWithDefaults creates a CLI application with the conventional
// configuration path ../configs/{appName}.
func NewCLIWithDefaults(appName string, rootCmd *cobra.Command) *CLIApplication {
	return NewCLI("../configs/"+appName, "APP", rootCmd)
}

// OnSetup registers the Setup-phase callback (chainable).
func (c *CLIApplication) OnSetup(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnSetup(func(base *BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnReady registers the startup-complete callback (chainable).
func (c *CLIApplication) OnReady(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnReady(func(base *BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnShutdown registers the shutdown callback (chainable).
func (c *CLIApplication) OnShutdown(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.onShutdown = func(ctx context.Context) error {
		return fn(c)
	}
	return c
}

// Execute runs the CLI command synchronously and shuts down afterwards.
func (c *CLIApplication) Execute() error {
	// 1. Setup (initialize all components)
	if err := c.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	// 2. OnReady (CLI-specific initialization)
	c.BaseApplication.setState(StateRunning)
	if c.BaseApplication.onReady != nil {
		if err := c.BaseApplication.onReady(c.BaseApplication); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}

	log := c.MustGetLogger()
	log.DebugCtx(c.ctx, "✅ CLI application initialized", zap.Int64("startup_time", c.GetStartupTimeMs()))

	// 3. Run the cobra command (synchronous)
	err := c.rootCmd.Execute()

	// 4. Graceful shutdown whether the command succeeded or failed
	shutdownErr := c.gracefulShutdown()

	if err != nil {
		return err
	}
	return shutdownErr
}

// gracefulShutdown closes the CLI application.
func (c *CLIApplication) gracefulShutdown() error {
	log := c.MustGetLogger()
	log.DebugCtx(c.ctx, "Starting CLI application graceful shutdown...")

	// CLI runs are short; five seconds covers component teardown
	return c.BaseApplication.Shutdown(5 * time.Second)
}

// GetRootCmd returns the root command (for testing).
func (c *CLIApplication) GetRootCmd() *cobra.Command {
	return c.rootCmd
}

// AddCommand adds subcommands (convenience).
func (c *CLIApplication) AddCommand(cmds ...*cobra.Command) *CLIApplication {
	c.rootCmd.AddCommand(cmds...)
	return c
}
