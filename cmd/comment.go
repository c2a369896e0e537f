package cmd

import (
	"github.com/spf13/cobra"

	"photoshare/internal/feedback"
)

var commentCmd = &cobra.Command{
	Use:   "comment <contentID> <text>",
	Short: "Comment on a content item",
	Long: `Submit a comment on a content item. Comments are capped at 500
characters and cannot be empty.

Example:
  photoshare comment 64a1f2c9e4b0a93d1c8b4567 "Great shot!"`,
	Args: cobra.ExactArgs(2),
	RunE: runComment,
}

func init() {
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	store := feedback.New(client, sess, args[0], feedback.WithPageSize(cfg.PageSize))
	store.SetDraft(args[1])

	if err := store.SubmitComment(cmd.Context(), args[1]); err != nil {
		printer.Error("%s", store.State().LastError)
		return err
	}

	state := store.State()
	printer.Success("Comment posted.")
	printer.Print("%d comments across %d pages.",
		state.Pagination.TotalComments, state.Pagination.TotalPages)
	return nil
}
