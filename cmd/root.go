// Package cmd contains all CLI commands for photoshare.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"photoshare/internal/api"
	"photoshare/internal/config"
	"photoshare/internal/output"
	"photoshare/internal/session"
)

var (
	flagHost    string
	flagToken   string
	flagTimeout int
	verbose     bool
	noColor     bool

	cfg     *config.Config
	sess    *session.Session
	client  *api.Client
	logger  *slog.Logger
	printer *output.Printer
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photoshare",
	Short: "Terminal client for the PhotoShare service",
	Long: `photoshare is a terminal client for the PhotoShare photo/video sharing
service. It browses the feed, views profiles, and reads and writes the
ratings and comments attached to content items.

Example usage:
  photoshare feed                       # Browse the content feed
  photoshare feed --search sunset       # Search posts by title
  photoshare comments <contentID>       # View a post's ratings and comments
  photoshare rate <contentID> 4         # Rate a post
  photoshare comment <contentID> "..."  # Comment on a post`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "PhotoShare API host (default from PHOTOSHARE_HOST)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (default from PHOTOSHARE_TOKEN)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// initClient loads configuration and wires the session and API client every
// command shares.
func initClient() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = flagTimeout
	}

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	printer = output.NewPrinter(!noColor)

	sess = session.New(cfg.Token)
	sess.OnInvalidate(func() {
		logger.Warn("credential invalidated by server, continuing anonymously")
	})

	client = api.New(cfg.Host, sess,
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
	)
	return nil
}
