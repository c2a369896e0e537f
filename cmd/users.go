package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"photoshare/internal/output"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Long: `List every registered user, optionally filtered by username. Use the
ids with the profile command.

Examples:
  photoshare users
  photoshare users --search ali`,
	RunE: runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().String("search", "", "filter users by username")
}

func runUsers(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")

	users, err := client.AllUsers(cmd.Context())
	if err != nil {
		printer.Error("%s", err)
		return err
	}

	if search != "" {
		needle := strings.ToLower(search)
		matched := users[:0]
		for _, user := range users {
			if strings.Contains(strings.ToLower(user.Username), needle) {
				matched = append(matched, user)
			}
		}
		users = matched
	}

	if len(users) == 0 {
		printer.Info("No users found.")
		return nil
	}

	printer.Header("Users")
	table := output.NewTable(printer.Out(), []string{"ID", "USERNAME"})
	for _, user := range users {
		table.AddRow([]string{user.ID, user.Username})
	}
	table.Render()
	return nil
}
