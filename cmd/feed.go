package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photoshare/internal/feed"
	"photoshare/internal/output"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the content feed",
	Long: `Browse photos and videos shared by creators, newest first.

Examples:
  photoshare feed                  # Full feed
  photoshare feed --search sunset  # Posts whose title matches
  photoshare feed --ratings        # Include each post's rating summary`,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().String("search", "", "filter posts by title")
	feedCmd.Flags().Bool("ratings", false, "include rating and comment counts")
}

func runFeed(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	withRatings, _ := cmd.Flags().GetBool("ratings")

	svc := feed.NewService(client, sess)
	posts, err := svc.Browse(cmd.Context(), search)
	if err != nil {
		printer.Error("%s", err)
		return err
	}

	if len(posts) == 0 {
		if search != "" {
			printer.Info("No matching posts found.")
		} else {
			printer.Info("No content available to display.")
		}
		return nil
	}

	headers := []string{"ID", "TITLE", "CREATOR", "DATE", "LOCATION"}
	if withRatings {
		headers = append(headers, "RATING", "COMMENTS")
	}

	var summaries map[string]*feedSummary
	if withRatings {
		raw, err := svc.Summaries(cmd.Context(), posts, cfg.PageSize)
		if err != nil {
			printer.Error("%s", err)
			return err
		}
		summaries = make(map[string]*feedSummary, len(raw))
		for id, snapshot := range raw {
			summaries[id] = &feedSummary{
				rating:   fmt.Sprintf("%s (%.1f from %d)", output.Stars(snapshot.AverageRating), snapshot.AverageRating, snapshot.RatingsCount),
				comments: strconv.Itoa(snapshot.Pagination.TotalComments),
			}
		}
	}

	printer.Header("Feed")
	table := output.NewTable(printer.Out(), headers)
	for _, post := range posts {
		row := []string{
			post.ID,
			printer.Bold(post.Title),
			post.Creator.Username,
			output.ShortDate(post.UploadDate),
			post.Location,
		}
		if withRatings {
			summary := summaries[post.ID]
			row = append(row, summary.rating, summary.comments)
		}
		table.AddRow(row)
	}
	table.Render()
	return nil
}

type feedSummary struct {
	rating   string
	comments string
}
