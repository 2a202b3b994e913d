package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

var rememberCmd = &cobra.Command{
	Use:   "remember [user-message] [assistant-message]",
	Short: "Extract durable facts from a conversation turn",
	Long: `Asks the configured LLM whether the conversation turn contains
high-signal, reusable facts. Facts at or above the confidence
threshold are appended to the USER or COMPANY memory store unless an
equivalent fact is already present.`,
	Args: cobra.ExactArgs(2),
	RunE: runRemember,
}

var memoryCmd = &cobra.Command{
	Use:   "memory [target]",
	Short: "Show stored memory facts",
	Long:  `Prints the stored facts for a memory target (USER or COMPANY).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryShow,
}

func init() {
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runRemember(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	written, err := memoryService.ProcessTurn(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("processing turn: %w", err)
	}

	if len(written) == 0 {
		cmd.Println("Nothing worth remembering.")
		return nil
	}

	for _, fact := range written {
		cmd.Printf("Remembered (%s): %s\n", fact.Target, fact.Summary)
	}
	return nil
}

func runMemoryShow(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	target, ok := domain.ParseMemoryTarget(args[0])
	if !ok {
		return fmt.Errorf("unknown target %q (expected USER or COMPANY)", args[0])
	}

	text, err := memoryService.Context(context.Background(), target)
	if err != nil {
		return fmt.Errorf("loading memory: %w", err)
	}

	if text == "" {
		cmd.Printf("No facts stored for %s.\n", target)
		return nil
	}

	cmd.Println(text)
	return nil
}
