package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/loader"
	"github.com/custodia-labs/lexmap/internal/core/domain"
)

var processCmd = &cobra.Command{
	Use:   "process [file|url]",
	Short: "Process a document into a knowledge graph",
	Long: `Extracts the document, indexes it and prints the derived knowledge graph.
URLs are only accepted in online mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarise a whole document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [topic]",
	Short: "Summarise one topic of a document",
	Long: `Summarises a topic of the document given with --file, or of the remote
document given with --doc. Use --node to summarise a graph node instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

var (
	summaryNode string
	summaryFile string
	summaryDoc  string
)

func init() {
	summaryCmd.Flags().StringVar(&summaryNode, "node", "", "graph node id to summarise")
	summaryCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "process this file or url first")
	summaryCmd.Flags().StringVar(&summaryDoc, "doc", "", "remote document id from an earlier process")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	result, err := processSource(cmd, args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return outputJSON(cmd, result)
	}

	cmd.Printf("Processed: %s\n", result.Title)
	cmd.Printf("Document:  %s\n", result.DocumentID)
	if result.GraphData != nil {
		cmd.Println()
		cmd.Println("Topics:")
		for _, n := range result.GraphData.Nodes {
			cmd.Printf("  %-20s %s\n", n.ID, n.Label)
		}
	}
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	src, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	result, err := explorer.SummarizeWholeDocument(cmd.Context(), src)
	if err != nil {
		return err
	}
	return outputSummary(cmd, result)
}

func runSummary(cmd *cobra.Command, args []string) error {
	req := domain.SummaryRequest{DocumentID: summaryDoc}
	if len(args) == 1 {
		req.Topic = args[0]
	}
	if req.Topic == "" && summaryNode == "" {
		return fmt.Errorf("%w: give a topic or --node", domain.ErrInvalidInput)
	}

	if summaryFile != "" {
		result, err := processSource(cmd, summaryFile)
		if err != nil {
			return err
		}
		req.Graph = result.GraphData
	}
	if summaryDoc != "" {
		explorer.UseDocument(summaryDoc)
	}
	req.ClickedNodeID = summaryNode

	result, err := explorer.GetSummary(cmd.Context(), req)
	if err != nil {
		return err
	}
	return outputSummary(cmd, result)
}

func processSource(cmd *cobra.Command, arg string) (*domain.ProcessResult, error) {
	src, err := loader.Load(arg)
	if err != nil {
		return nil, err
	}
	return explorer.ProcessDocument(cmd.Context(), src)
}

func outputSummary(cmd *cobra.Command, result *domain.SummaryResult) error {
	if flagJSON {
		return outputJSON(cmd, result)
	}
	cmd.Println(result.Summary)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
