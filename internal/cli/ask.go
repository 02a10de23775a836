package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/models"
)

var askInteractive bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant about your notes",
	Long: `Ask a question and get an answer grounded in your notes.

The assistant can also create and update notes on request via its tools.
With --interactive (or no question argument) an interactive session keeps
the conversation going until EOF.

Examples:
  smartnotes ask "what did I write about the garden?"
  smartnotes ask "add milk to my shopping list note"
  smartnotes ask -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "start an interactive session")
}

func runAsk(cmd *cobra.Command, args []string) error {
	var turn func(ctx context.Context, history []models.ChatMessage, question string) (string, error)
	if remote != nil {
		turn = func(ctx context.Context, history []models.ChatMessage, question string) (string, error) {
			return remote.Chat(ctx, question, history, "")
		}
	} else {
		loop, err := getLoop()
		if err != nil {
			return fmt.Errorf("init assistant: %w", err)
		}
		turn = func(ctx context.Context, history []models.ChatMessage, question string) (string, error) {
			return loop.RunTurn(ctx, history, question, "")
		}
	}
	ctx := context.Background()

	if len(args) == 1 && !askInteractive {
		answer, err := turn(ctx, nil, args[0])
		if err != nil {
			return fmt.Errorf("run turn: %w", err)
		}
		fmt.Println(answer)
		return nil
	}

	var history []models.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("Ask about your notes. Ctrl-D to quit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := turn(ctx, history, question)
		if err != nil {
			return fmt.Errorf("run turn: %w", err)
		}
		fmt.Println(answer)

		history = append(history,
			models.ChatMessage{Role: models.RoleUser, Content: question},
			models.ChatMessage{Role: models.RoleAssistant, Content: answer},
		)
	}
}
