package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"photoshare/internal/models"
	"photoshare/internal/stubserver"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stub of the PhotoShare backend",
	Long: `Run an in-memory stand-in for the PhotoShare backend, seeded with a
few demo users and posts. Useful for trying the client without a real
deployment. Nothing persists across restarts.

Demo tokens: demo-alice (creator), demo-bob (consumer).

Example:
  photoshare stub --port 8080`,
	RunE: runStub,
}

func init() {
	rootCmd.AddCommand(stubCmd)

	stubCmd.Flags().Int("port", 8080, "port to listen on")
}

func runStub(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")

	srv := stubserver.New()
	seedDemoData(srv)

	printer.Info("Stub PhotoShare backend listening on :%d", port)
	printer.Print("Tokens: demo-alice (creator), demo-bob (consumer)")
	return srv.Listen(fmt.Sprintf(":%d", port))
}

// seedDemoData loads the stub with enough content to exercise pagination:
// one post with seven comments spans two pages at the default page size.
func seedDemoData(srv *stubserver.Server) {
	alice := models.UserRef{ID: "u-alice", Username: "alice"}
	bob := models.UserRef{ID: "u-bob", Username: "bob"}
	srv.AddUser("demo-alice", alice, models.Roles{Creator: true, Consumer: true})
	srv.AddUser("demo-bob", bob, models.Roles{Consumer: true})

	now := time.Now().UTC()
	srv.AddPost(models.Post{
		ID:         "p-sunrise",
		Title:      "Sunrise over the bay",
		Caption:    "5am was worth it",
		MediaURL:   "https://cdn.example.com/image/upload/sunrise.jpg",
		Location:   "Lisbon, Portugal",
		Creator:    alice,
		UploadDate: now.Add(-48 * time.Hour),
	})
	srv.AddPost(models.Post{
		ID:         "p-market",
		Title:      "Night market",
		MediaURL:   "https://cdn.example.com/video/upload/market.mp4",
		Location:   "Bangkok, Thailand",
		Creator:    alice,
		UploadDate: now.Add(-24 * time.Hour),
	})

	srv.SetRating("p-sunrise", bob.ID, 5)
	for i := 0; i < 7; i++ {
		srv.AddComment("p-sunrise", bob.ID,
			fmt.Sprintf("Comment number %d", i+1),
			now.Add(time.Duration(-i)*time.Hour))
	}
}
