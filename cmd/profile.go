package cmd

import (
	"github.com/spf13/cobra"

	"photoshare/internal/output"
	"photoshare/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile <userID>",
	Short: "View a user's profile",
	Long: `View a user's profile and, for creators, the posts they have uploaded.

Example:
  photoshare profile 64a1f2c9e4b0a93d1c8b4567`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	view, err := profile.Fetch(cmd.Context(), client, args[0])
	if err != nil {
		printer.Error("%s", err)
		return err
	}

	printer.Header(view.Profile.Username + "'s Profile")
	printer.Print("Email:  %s", view.Profile.Email)
	printer.Print("Joined: %s", output.ShortDate(view.Profile.CreatedAt))
	role := "Consumer"
	if view.Profile.Roles.Creator {
		role = "Creator"
	}
	printer.Print("Role:   %s", role)

	if !view.Profile.Roles.Creator {
		return nil
	}

	printer.Header("Posts")
	if len(view.Posts) == 0 {
		printer.Info("No posts yet.")
		return nil
	}
	table := output.NewTable(printer.Out(), []string{"ID", "TITLE", "DATE", "LOCATION"})
	for _, post := range view.Posts {
		table.AddRow([]string{
			post.ID,
			printer.Bold(post.Title),
			output.ShortDate(post.UploadDate),
			post.Location,
		})
	}
	table.Render()
	return nil
}
