package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var memoryListLimit int

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "Inspect the companion's memories about you",
	Long: `List and delete the durable memories the companion has kept.

Subcommands:
  list    List memories, most important first (default)
  forget  Delete a memory entry

Examples:
  surrogate memories
  surrogate memories list -n 10
  surrogate memories forget memory123`,
	RunE: runListMemories,
}

var memoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories",
	RunE:  runListMemories,
}

var memoriesForgetCmd = &cobra.Command{
	Use:   "forget <memory-id>",
	Short: "Delete a memory entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runForgetMemory,
}

func init() {
	memoriesListCmd.Flags().IntVarP(&memoryListLimit, "limit", "n", 0, "max results (0 = all)")
	memoriesCmd.Flags().IntVarP(&memoryListLimit, "limit", "n", 0, "max results (0 = all)")

	memoriesCmd.AddCommand(memoriesListCmd)
	memoriesCmd.AddCommand(memoriesForgetCmd)
}

func runListMemories(cmd *cobra.Command, args []string) error {
	memories, err := api.ListMemories(context.Background(), userID, memoryListLimit)
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	if len(memories) == 0 {
		fmt.Println("No memories stored.")
		return nil
	}

	fmt.Printf("Memories (%d):\n\n", len(memories))
	for _, mem := range memories {
		fmt.Printf("- [%d/10] %s\n", mem.ImportanceScore, mem.Summary)
		fmt.Printf("  id %s, stored %s\n", mem.ID, mem.CreatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

func runForgetMemory(cmd *cobra.Command, args []string) error {
	if err := api.DeleteMemory(context.Background(), userID, args[0]); err != nil {
		return fmt.Errorf("forget memory: %w", err)
	}

	fmt.Printf("Forgot memory %s\n", args[0])
	return nil
}
