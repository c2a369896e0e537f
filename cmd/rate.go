package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photoshare/internal/feedback"
)

var rateCmd = &cobra.Command{
	Use:   "rate <contentID> <1-5>",
	Short: "Rate a content item",
	Long: `Submit a 1-5 star rating for a content item. Rating again overwrites
your previous rating; there is only ever one rating per user per item.

Example:
  photoshare rate 64a1f2c9e4b0a93d1c8b4567 4`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("rating must be a number between 1 and 5, got %q", args[1])
	}

	store := feedback.New(client, sess, args[0], feedback.WithPageSize(cfg.PageSize))
	if err := store.Rate(cmd.Context(), rating); err != nil {
		printer.Error("%s", store.State().LastError)
		return err
	}

	state := store.State()
	printer.Success("Rated %d stars.", rating)
	printer.Print("Average is now %.1f from %d ratings.",
		state.AverageRating, state.RatingsCount)
	return nil
}
