// Package cli provides the lexmap command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexmap/internal/core/ports/driving"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// skipServices marks commands that run without the core services.
const skipServices = "skip-services"

// Options are the global flags handed to the bootstrap.
type Options struct {
	ConfigPath string
	Offline    bool
	Verbose    bool
}

// Services are the core services the commands drive.
type Services struct {
	Explorer     driving.Explorer
	Settings     driving.SettingsService
	Connectivity tui.ConnectivityFeed

	// LogFile receives logs while the chat panel owns the terminal.
	LogFile string

	// Close releases resources. Optional.
	Close func()
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services

	explorer        driving.Explorer
	settingsService driving.SettingsService

	flagVerbose bool
	flagOffline bool
	flagConfig  string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "lexmap",
	Short: "Explore legal documents as a knowledge graph",
	Long: `lexmap turns a legal document into a knowledge graph of its key topics
and lets you chat with it, summarise topics and summarise the whole document.

Online mode uses the remote document service when it is reachable and falls
back to the local pipeline otherwise. Offline mode always runs locally.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "run on the local pipeline for this invocation")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.lexmap/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output results as JSON")
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if !needsServices(cmd) {
		return nil
	}

	if explorer == nil && bootstrap != nil {
		svc, err := bootstrap(cmd.Context(), Options{
			ConfigPath: flagConfig,
			Offline:    flagOffline,
			Verbose:    flagVerbose,
		})
		if err != nil {
			return fmt.Errorf("starting lexmap: %w", err)
		}
		services = svc
		explorer = svc.Explorer
		settingsService = svc.Settings
	}

	if explorer == nil {
		return errors.New("explorer not configured")
	}
	if flagOffline {
		explorer.SetMode(false)
	}
	logger.Debug("mode=%s route=%s", explorer.Mode(), explorer.Route(cmd.Context()))
	return nil
}

// needsServices is false for commands, or children of commands, that
// run without the core services.
func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipServices] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func teardown(_ *cobra.Command, _ []string) {
	if services != nil && services.Close != nil {
		services.Close()
	}
}
