package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/models"
)

var listFolder string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFolder, "folder", "f", "", "only show notes in this folder")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	var all []models.Note
	var err error
	if remote != nil {
		all, err = remote.ListNotes(ctx)
	} else {
		all, err = notes.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	shown := 0
	for _, n := range all {
		if listFolder != "" && n.Folder != listFolder {
			continue
		}
		shown++
		fmt.Printf("%s  %s", n.UpdatedAt.Format("2006-01-02 15:04"), n.Title)
		if n.Folder != "" {
			fmt.Printf("  [%s]", n.Folder)
		}
		if verbose {
			fmt.Printf("  (%s)", n.ID)
		}
		fmt.Println()
	}

	if shown == 0 {
		fmt.Println("No notes found.")
	}
	return nil
}
