package cmd

import (
	"github.com/spf13/cobra"

	"photoshare/internal/feedback"
	"photoshare/internal/output"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <contentID>",
	Short: "View a post's ratings and comments",
	Long: `View the aggregate rating and one page of comments for a content item.
Comments come in pages of five, newest first.

Examples:
  photoshare comments 64a1f2c9e4b0a93d1c8b4567
  photoshare comments 64a1f2c9e4b0a93d1c8b4567 --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: runComments,
}

func init() {
	rootCmd.AddCommand(commentsCmd)

	commentsCmd.Flags().Int("page", 1, "comment page to display")
}

func runComments(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")

	store, err := feedback.Open(cmd.Context(), client, sess, args[0],
		feedback.WithPageSize(cfg.PageSize))
	if err != nil {
		printer.Error("%s", store.State().LastError)
		return err
	}
	if page != 1 {
		if err := store.ChangePage(cmd.Context(), page); err != nil {
			printer.Error("%s", store.State().LastError)
			return err
		}
	}

	renderFeedback(store)
	return nil
}

// renderFeedback prints a store's current state: the rating summary, the
// visible comment page and the pagination footer.
func renderFeedback(store *feedback.Store) {
	state := store.State()

	printer.Header("Ratings")
	printer.Print("Average: %s (%.1f from %d ratings)",
		output.Stars(state.AverageRating), state.AverageRating, state.RatingsCount)
	if state.UserRating != nil {
		printer.Print("Yours:   %s", output.Stars(float64(*state.UserRating)))
	} else if !sess.Authenticated() {
		printer.Print("%s", printer.Dim("Log in to rate this content."))
	}

	printer.Header("Comments")
	if state.CurrentPage > state.Pagination.TotalPages {
		printer.Info("This page is empty now. Page %d of %d.",
			state.CurrentPage, state.Pagination.TotalPages)
		return
	}
	if len(state.Comments) == 0 {
		printer.Info("No comments yet.")
		return
	}
	for _, comment := range state.Comments {
		author := printer.Bold(comment.User.Username)
		if comment.UserRating != nil {
			author += " " + output.Stars(float64(*comment.UserRating))
		}
		printer.Print("%s  %s", author, printer.Dim(output.ShortDate(comment.Date)))
		printer.Print("  %s", comment.Text)
		printer.Print("  %s", printer.Dim("id: "+comment.ID))
	}
	printer.Print("")
	printer.Info("Page %d of %d (%d comments)",
		state.CurrentPage, state.Pagination.TotalPages, state.Pagination.TotalComments)
}
