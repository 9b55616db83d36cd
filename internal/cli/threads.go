package cli

import (
	"context"
	"fmt"

	"github.com/maliksaad1/ai-surrogate/internal/models"
	"github.com/spf13/cobra"
)

var threadMessageLimit int

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
	Long: `List and manage conversation threads.

Subcommands:
  list      List threads (default)
  new       Create a new thread
  rename    Rename a thread
  delete    Delete a thread and all its messages
  messages  Show a thread's messages

Examples:
  surrogate threads
  surrogate threads new "Holiday planning"
  surrogate threads rename thread123 "Better title"
  surrogate threads delete thread123
  surrogate threads messages thread123 -n 20`,
	RunE: runListThreads,
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List threads",
	RunE:  runListThreads,
}

var threadsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new thread",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNewThread,
}

var threadsRenameCmd = &cobra.Command{
	Use:   "rename <thread-id> <title>",
	Short: "Rename a thread",
	Args:  cobra.ExactArgs(2),
	RunE:  runRenameThread,
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete a thread and all its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteThread,
}

var threadsMessagesCmd = &cobra.Command{
	Use:   "messages <thread-id>",
	Short: "Show a thread's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadMessages,
}

func init() {
	threadsMessagesCmd.Flags().IntVarP(&threadMessageLimit, "limit", "n", 0, "max messages (0 = all)")

	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsNewCmd)
	threadsCmd.AddCommand(threadsRenameCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
	threadsCmd.AddCommand(threadsMessagesCmd)
}

func runListThreads(cmd *cobra.Command, args []string) error {
	threads, err := api.ListThreads(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("list threads: %w", err)
	}

	if len(threads) == 0 {
		fmt.Println("No threads found.")
		return nil
	}

	fmt.Printf("Threads (%d):\n\n", len(threads))
	for _, thread := range threads {
		fmt.Printf("- %s  %s\n", thread.ID, thread.Title)
		fmt.Printf("  last active %s\n", thread.LastMessageAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runNewThread(cmd *cobra.Command, args []string) error {
	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	thread, err := api.CreateThread(context.Background(), userID, title)
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	fmt.Printf("Created thread %s (%s)\n", thread.ID, thread.Title)
	return nil
}

func runRenameThread(cmd *cobra.Command, args []string) error {
	thread, err := api.RenameThread(context.Background(), userID, args[0], args[1])
	if err != nil {
		return fmt.Errorf("rename thread: %w", err)
	}

	fmt.Printf("Renamed thread %s to %q\n", thread.ID, thread.Title)
	return nil
}

func runDeleteThread(cmd *cobra.Command, args []string) error {
	if err := api.DeleteThread(context.Background(), userID, args[0]); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}

	fmt.Printf("Deleted thread %s\n", args[0])
	return nil
}

func runThreadMessages(cmd *cobra.Command, args []string) error {
	msgs, err := api.ListMessages(context.Background(), userID, args[0], threadMessageLimit)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages in this thread.")
		return nil
	}

	for _, msg := range msgs {
		label := "AI"
		if msg.Role == models.RoleUser {
			label = "You"
		}
		fmt.Printf("%s: %s\n", label, msg.Content)
		if msg.Emotion != nil {
			fmt.Printf("   tone: %s\n", *msg.Emotion)
		}
	}
	return nil
}
