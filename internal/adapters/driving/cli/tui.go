package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexmap/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat panel",
	Long: `Open the interactive chat panel. Process a document with /process, then
ask questions about it. The status line shows the mode and whether the
remote service is reachable.

When stdin is not a terminal, a plain line-based prompt is used instead.

Controls:
  enter   - Send
  ctrl+o  - Toggle online/offline
  ctrl+l  - Clear transcript
  pgup/dn - Scroll
  esc     - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chatPorts() *tui.Ports {
	ports := &tui.Ports{
		Explorer: explorer,
		Settings: settingsService,
	}
	if services != nil {
		ports.Connectivity = services.Connectivity
	}
	return ports
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runChat(cmd *cobra.Command, _ []string) error {
	if !isTerminal(cmd.InOrStdin()) {
		return tui.RunREPL(cmd.Context(), chatPorts(), cmd.InOrStdin(), cmd.OutOrStdout())
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Logs would corrupt the alternate screen.
	if services != nil && services.LogFile != "" {
		restore, err := logger.OpenFile(services.LogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer restore()
	}

	app, err := tui.NewApp(chatPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
