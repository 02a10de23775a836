package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a note by title",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var note *models.Note
	var err error
	if remote != nil {
		note, err = remoteFindByTitle(ctx, args[0])
	} else {
		note, err = notes.FindByTitle(ctx, args[0])
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no note found with title %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("find note: %w", err)
	}

	if remote != nil {
		err = remote.DeleteNote(ctx, note.ID)
	} else {
		err = notes.Delete(ctx, note.ID)
	}
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	fmt.Printf("Deleted %q\n", note.Title)
	return nil
}

// remoteFindByTitle mirrors the service's title lookup over the API: exact
// case-insensitive match first, then substring.
func remoteFindByTitle(ctx context.Context, title string) (*models.Note, error) {
	all, err := remote.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Title, title) {
			return &all[i], nil
		}
	}
	lower := strings.ToLower(title)
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].Title), lower) {
			return &all[i], nil
		}
	}
	return nil, store.ErrNotFound
}
