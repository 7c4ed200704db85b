package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/gazellectl/filter"
	"github.com/s0up4200/gazellectl/gazelle"
)

var betterType int

// betterCmd represents the better command
var betterCmd = &cobra.Command{
	Use:   "better",
	Short: "List transcode candidates from better.php",
	Long: `Scrape the tracker's transcode listing and print each candidate's
torrent id and permalink. With a filter expression each candidate's
torrent is fetched and matched, which costs one rate-limited API
request per candidate.`,
	RunE: runBetter,
}

func init() {
	rootCmd.AddCommand(betterCmd)

	betterCmd.Flags().IntVar(&betterType, "type", 3, "better.php transcode type")
	betterCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	betterCmd.Flags().StringVarP(&filterPreset, "preset", "p", "", "use a preset filter from config")
}

func runBetter(cmd *cobra.Command, args []string) error {
	expression, err := getFilterExpression(filterExpr, filterPreset)
	if err != nil {
		return err
	}

	ctx := context.Background()

	entries, err := client.GetBetter(ctx, betterType)
	if err != nil {
		return err
	}

	if expression != "" {
		match, err := filter.New(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		entries, err = filterBetterEntries(ctx, client, entries, match)
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Println("No transcode candidates found.")
		return nil
	}

	fmt.Printf("Found %d transcode candidates:\n\n", len(entries))
	for _, e := range entries {
		fmt.Printf("%d\t%s/%s\n", e.ID, cfg.Tracker.URL, e.Permalink)
	}
	return nil
}

// filterBetterEntries looks up each candidate's torrent and keeps the
// ones matching the predicate. Every lookup goes through the client's
// rate limiter.
func filterBetterEntries(ctx context.Context, c *gazelle.Client, entries []gazelle.BetterEntry, match func(gazelle.Torrent) bool) ([]gazelle.BetterEntry, error) {
	var kept []gazelle.BetterEntry
	for _, e := range entries {
		info, err := c.GetTorrentInfo(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if match(info.Torrent) {
			kept = append(kept, e)
		}
	}
	return kept, nil
}
