package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/gazellectl/config"
	"github.com/s0up4200/gazellectl/gazelle"
	"github.com/s0up4200/gazellectl/htmlform"
	"github.com/s0up4200/gazellectl/lidarr"
	"github.com/s0up4200/gazellectl/qbit"
)

var (
	cfgFile      string
	cfg          *config.Config
	logger       zerolog.Logger
	client       *gazelle.Client
	qbitClient   *qbit.Client
	lidarrClient *lidarr.Client

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, t)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gazellectl",
	Short: "A client for Gazelle private tracker APIs",
	Long: `gazellectl talks to a Gazelle-style private tracker: it authenticates
a session, lists artist releases and snatch history, finds transcode
candidates, downloads .torrent files (optionally injecting them into
qBittorrent and notifying Lidarr) and submits transcode uploads.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads configuration, sets up logging and authenticates
// the tracker session. Optional integrations are created when enabled;
// their failure downgrades to a warning rather than aborting.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	// The form submitter must share the session's cookie jar, so the
	// HTTP client is built here and handed to both.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second, Jar: jar}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err = gazelle.NewClient(ctx, gazelle.Config{
		Endpoint:      cfg.Tracker.URL,
		APIKey:        cfg.Tracker.APIKey,
		SessionCookie: cfg.Tracker.SessionCookie,
		Username:      cfg.Tracker.Username,
		Password:      cfg.Tracker.Password,
		TOTP:          cfg.Tracker.TOTP,
		RateLimit:     time.Duration(cfg.Tracker.RateLimit * float64(time.Second)),
		PageSize:      cfg.Tracker.PageSize,
		HTTPClient:    httpClient,
		Forms:         htmlform.New(httpClient, logger),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create tracker client: %w", err)
	}

	if cfg.QBittorrent.Enabled {
		qbitClient, err = qbit.NewClient(cfg.QBittorrent.URL, cfg.QBittorrent.Username, cfg.QBittorrent.Password, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create qBittorrent client, continuing without injection")
		} else {
			logger.Info().Msg("qBittorrent integration enabled")
		}
	}

	if cfg.Lidarr.Enabled {
		lidarrClient, err = lidarr.NewClient(cfg.Lidarr.URL, cfg.Lidarr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Lidarr client, continuing without library scans")
		} else {
			logger.Info().Msg("Lidarr integration enabled")
		}
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when the config allows it and stderr is
	// actually a terminal.
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the tracker connection and integrations",
	Long:  `Authenticate against the tracker and verify the optional qBittorrent and Lidarr integrations.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", cfg.Tracker.URL)

	// Authentication already happened during client creation
	fmt.Println("✓ Tracker authentication successful!")
	fmt.Printf("- User ID: %d\n", client.UserID())
	fmt.Printf("- API key auth: %s\n", boolToStatus(client.APIKeyAuthenticated()))
	fmt.Printf("- Rate limit: %.1fs between requests\n", cfg.Tracker.RateLimit)
	fmt.Printf("- Snatched page size: %d\n", client.PageSize())

	if qbitClient != nil {
		fmt.Printf("\n✓ qBittorrent connection successful (%s)\n", cfg.QBittorrent.URL)
	} else {
		fmt.Println("\nqBittorrent integration: Disabled")
	}

	if lidarrClient != nil {
		fmt.Printf("✓ Lidarr connection successful (%s)\n", cfg.Lidarr.URL)
	} else {
		fmt.Println("Lidarr integration: Disabled")
	}

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

// getFilterExpression determines the filter expression to use
func getFilterExpression(filterExpr, preset string) (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[preset]; ok {
			return presetFilter, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}
