package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snatchedCount bool

// snatchedCmd represents the snatched command
var snatchedCmd = &cobra.Command{
	Use:   "snatched",
	Short: "List the account's snatch history",
	Long: `Page through the tracker's record of completed downloads and print
(group id, torrent id) pairs. Large histories take a while: every page
is a rate-limited API request.`,
	RunE: runSnatched,
}

func init() {
	rootCmd.AddCommand(snatchedCmd)

	snatchedCmd.Flags().BoolVar(&snatchedCount, "count", false, "print only the total number of snatches")
}

func runSnatched(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var total int
	err := client.Snatched(ctx, func(groupID, torrentID int) error {
		total++
		if !snatchedCount {
			fmt.Printf("%d\t%d\n", groupID, torrentID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if snatchedCount {
		fmt.Println(total)
	} else {
		logger.Info().Int("total", total).Msg("snatch history complete")
	}
	return nil
}
