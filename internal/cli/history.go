package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/docchat/internal/chatbot"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <session>",
	Short: "Print the stored chat history for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := store.Messages(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get history: %w", err)
		}
		if len(messages) == 0 {
			fmt.Println("no history for this session")
			return nil
		}
		fmt.Println(chatbot.SerializeMessages(messages))
		return nil
	},
}
