package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

var modeCmd = &cobra.Command{
	Use:   "mode [online|offline]",
	Short: "Show or set the processing mode",
	Long: `Without an argument, prints the configured mode and the backend the next
call would use. With an argument, saves the mode to the config file.

Available modes:
  online   - Use the remote document service when reachable
  offline  - Always use the local pipeline`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.ModeOnline), string(domain.ModeOffline)},
	RunE:      runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func runMode(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		mode, ok := domain.ParseMode(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, args[0])
		}
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.SetMode(mode); err != nil {
			return fmt.Errorf("failed to set mode: %w", err)
		}
		explorer.SetMode(mode.IsOnline())
	}

	route := explorer.Route(cmd.Context())
	if flagJSON {
		return outputJSON(cmd, map[string]string{
			"mode":  explorer.Mode().String(),
			"route": route.String(),
		})
	}
	cmd.Printf("Mode:  %s\n", explorer.Mode())
	cmd.Printf("Route: %s\n", route)
	return nil
}
