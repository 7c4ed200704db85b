package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/gazellectl/qbit"
)

var (
	downloadDir    string
	downloadAdd    bool
	downloadRescan bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <torrent-id>...",
	Short: "Download .torrent files by id",
	Long: `Download one or more .torrent payloads into a directory. With --add the
payloads are also injected into qBittorrent, and with --rescan Lidarr is
told to scan for completed downloads afterwards.

Downloads run concurrently but still serialize on the client's rate
limiter, so tracker pacing is preserved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadDir, "output", "o", "", "output directory (default from config)")
	downloadCmd.Flags().BoolVar(&downloadAdd, "add", false, "inject downloaded torrents into qBittorrent")
	downloadCmd.Flags().BoolVar(&downloadRescan, "rescan", false, "trigger a Lidarr downloads scan afterwards")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid torrent id %q", arg)
		}
		ids = append(ids, id)
	}

	if downloadAdd && qbitClient == nil {
		return fmt.Errorf("--add requires a working qbittorrent configuration")
	}
	if downloadRescan && lidarrClient == nil {
		return fmt.Errorf("--rescan requires a working lidarr configuration")
	}

	outDir := downloadDir
	if outDir == "" {
		outDir = cfg.Download.Directory
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Download.Concurrency)

	var mu sync.Mutex
	var fetched, missing int

	for _, id := range ids {
		g.Go(func() error {
			data, err := client.GetTorrent(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to download torrent %d: %w", id, err)
			}
			if data == nil {
				logger.Warn().Int("torrent_id", id).Msg("torrent not available")
				mu.Lock()
				missing++
				mu.Unlock()
				return nil
			}

			path := filepath.Join(outDir, fmt.Sprintf("%d.torrent", id))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logger.Info().Int("torrent_id", id).Str("path", path).Msg("downloaded torrent")

			if downloadAdd {
				err := qbitClient.AddTorrent(ctx, data, qbit.AddOptions{
					Category: cfg.QBittorrent.Category,
					Tags:     cfg.QBittorrent.Tags,
					SavePath: cfg.QBittorrent.SavePath,
					Paused:   cfg.QBittorrent.Paused,
				})
				if err != nil {
					return fmt.Errorf("failed to inject torrent %d: %w", id, err)
				}
			}

			mu.Lock()
			fetched++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("✓ Downloaded %d of %d torrents", fetched, len(ids))
	if missing > 0 {
		fmt.Printf(" (%d not available)", missing)
	}
	fmt.Println()

	if downloadRescan && fetched > 0 {
		if err := lidarrClient.ScanDownloads(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Lidarr downloads scan triggered")
	}

	return nil
}
