// Package cli provides the command-line interface for the surrogate server.
package cli

import (
	"github.com/maliksaad1/ai-surrogate/internal/client"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	userID    string

	// API client, created before every command runs.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "surrogate",
	Short: "AI companion chat client",
	Long: `Surrogate is the command-line client for the AI companion server.

Chat with the companion, manage conversation threads and inspect the
memories it has kept about you. The server routes each message to a
specialized agent (chat, scheduler, docs, memory) and analyzes its
emotional tone alongside.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $SURROGATE_SERVER_URL or http://localhost:8090)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "default", "user id to act as")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(statsCmd)
}
