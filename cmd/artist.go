package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/gazellectl/filter"
	"github.com/s0up4200/gazellectl/gazelle"
)

var (
	artistID     int
	artistFormat string
	artistAll    bool
	filterExpr   string
	filterPreset string
)

// artistCmd represents the artist command
var artistCmd = &cobra.Command{
	Use:   "artist",
	Short: "List an artist's releases filtered by format",
	Long: `Fetch an artist's torrent groups and show the torrents matching the
requested format. By default only the best-seeded matching torrent per
release is shown; use --all to keep every match.`,
	RunE: runArtist,
}

func init() {
	rootCmd.AddCommand(artistCmd)

	artistCmd.Flags().IntVar(&artistID, "id", 0, "artist id (required)")
	artistCmd.Flags().StringVar(&artistFormat, "format", "FLAC", "torrent format to match")
	artistCmd.Flags().BoolVar(&artistAll, "all", false, "keep all matching torrents, not just the best seeded")
	artistCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	artistCmd.Flags().StringVarP(&filterPreset, "preset", "p", "", "use a preset filter from config")
	artistCmd.MarkFlagRequired("id")
}

func runArtist(cmd *cobra.Command, args []string) error {
	expr, err := getFilterExpression(filterExpr, filterPreset)
	if err != nil {
		return err
	}
	match, err := filter.New(expr)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	ctx := context.Background()
	artist, err := client.GetArtist(ctx, artistID, artistFormat, !artistAll)
	if err != nil {
		return err
	}

	if len(artist.TorrentGroups) == 0 {
		fmt.Printf("No releases with %s torrents found for %s.\n", artistFormat, artist.Name)
		return nil
	}

	fmt.Printf("\n%s: %d releases with %s torrents:\n", artist.Name, len(artist.TorrentGroups), artistFormat)
	fmt.Println(strings.Repeat("-", 80))

	var shown int
	for _, group := range artist.TorrentGroups {
		var torrents []gazelle.Torrent
		for _, t := range group.Torrents {
			if match(t) {
				torrents = append(torrents, t)
			}
		}
		if len(torrents) == 0 {
			continue
		}
		shown++

		fmt.Printf("• %s (%d)\n", group.GroupName, group.GroupYear)
		for _, t := range torrents {
			line := fmt.Sprintf("  [%d] %s / %s / %s - %d seeders", t.ID, t.Media, t.Format, t.Encoding, t.Seeders)
			if t.Remastered {
				line += fmt.Sprintf(" (%d %s)", t.RemasterYear, t.RemasterTitle)
			}
			fmt.Println(line)
		}
	}

	if shown == 0 {
		fmt.Println("No torrents matched the filter expression.")
	}
	return nil
}
