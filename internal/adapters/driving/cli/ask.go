package cli

import (
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a document",
	Long: `Answers a question about the document given with --file, or about the
remote document given with --doc. Questions sharing a --chat id share history
within one invocation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var (
	askChat string
	askFile string
	askDoc  string
)

func init() {
	askCmd.Flags().StringVar(&askChat, "chat", "default", "conversation id")
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "process this file or url first")
	askCmd.Flags().StringVar(&askDoc, "doc", "", "remote document id from an earlier process")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askFile != "" {
		if _, err := processSource(cmd, askFile); err != nil {
			return err
		}
	}
	if askDoc != "" {
		explorer.UseDocument(askDoc)
	}

	result, err := explorer.AskQuestion(cmd.Context(), askChat, args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return outputJSON(cmd, result)
	}
	cmd.Println(result.Answer)
	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, s := range result.Sources {
			cmd.Printf("  - %s\n", s)
		}
	}
	return nil
}
