package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server operation metrics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	snap, err := api.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("format stats: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
