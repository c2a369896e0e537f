package cmd

import (
	"github.com/spf13/cobra"

	"photoshare/internal/feedback"
)

var uncommentCmd = &cobra.Command{
	Use:   "uncomment <contentID> <commentID>",
	Short: "Delete one of your comments",
	Long: `Delete a comment you posted on a content item. The server rejects
deleting other people's comments.

Example:
  photoshare uncomment 64a1f2c9e4b0a93d1c8b4567 9f2b1c4d`,
	Args: cobra.ExactArgs(2),
	RunE: runUncomment,
}

func init() {
	rootCmd.AddCommand(uncommentCmd)
}

func runUncomment(cmd *cobra.Command, args []string) error {
	store := feedback.New(client, sess, args[0], feedback.WithPageSize(cfg.PageSize))

	if err := store.DeleteComment(cmd.Context(), args[1]); err != nil {
		printer.Error("%s", store.State().LastError)
		return err
	}

	state := store.State()
	printer.Success("Comment deleted.")
	printer.Print("%d comments remain.", state.Pagination.TotalComments)
	return nil
}
