package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/service"
)

var (
	addFolder string
	addStdin  bool
)

var addCmd = &cobra.Command{
	Use:   "add <title> [body]",
	Short: "Create a new note",
	Long: `Create a new note with a title and Markdown body.

The body may contain [[wikilinks]] to other notes and inline #tags; both
are parsed on save. The note is embedded and auto-linked in the background.

Examples:
  smartnotes add "Meeting Notes" "Discussed the #roadmap with [[Alice]]"
  smartnotes add "Reading List" --folder books
  cat draft.md | smartnotes add "Draft" --stdin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFolder, "folder", "f", "", "folder to place the note in")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "read the body from stdin")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := args[0]
	body := ""
	switch {
	case addStdin:
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		body = string(raw)
	case len(args) == 2:
		body = args[1]
	}

	ctx := context.Background()
	var note *models.Note
	var err error
	if remote != nil {
		note, err = remote.CreateNote(ctx, title, body, addFolder)
	} else {
		note, err = notes.Create(ctx, service.CreateInput{
			Title:  title,
			Body:   body,
			Folder: addFolder,
		})
	}
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	fmt.Printf("Created %q (id %s)\n", note.Title, note.ID)
	if len(note.LinkedTitles) > 0 {
		fmt.Printf("  Links: %v\n", note.LinkedTitles)
	}
	if len(note.Tags) > 0 {
		fmt.Printf("  Tags: %v\n", note.Tags)
	}
	return nil
}
