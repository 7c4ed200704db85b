package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/gazellectl/gazelle"
)

var (
	uploadSourceID    int
	uploadFile        string
	uploadFormat      string
	uploadDescription []string
	set24bitID        int
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a transcode to an existing group",
	Long: `Submit a new .torrent to the group of an existing source torrent,
copying its remaster metadata and media type. The source torrent must
allow transcoding (pre-emphasized masters do not) and the format must be
one of: ` + strings.Join(gazelle.FormatKeys, ", ") + `.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(set24bitCmd)

	uploadCmd.Flags().IntVar(&uploadSourceID, "source", 0, "source torrent id (required)")
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "path to the .torrent file to upload (required)")
	uploadCmd.Flags().StringVar(&uploadFormat, "format", "", "transcode format key: FLAC, V0 or 320 (required)")
	uploadCmd.Flags().StringArrayVar(&uploadDescription, "description", nil, "release description lines")
	uploadCmd.MarkFlagRequired("source")
	uploadCmd.MarkFlagRequired("file")
	uploadCmd.MarkFlagRequired("format")

	set24bitCmd.Flags().IntVar(&set24bitID, "id", 0, "torrent id to edit (required)")
	set24bitCmd.MarkFlagRequired("id")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	info, err := client.GetTorrentInfo(ctx, uploadSourceID)
	if err != nil {
		return err
	}

	allowed := gazelle.AllowedTranscodes(info.Torrent)
	if !slices.Contains(allowed, uploadFormat) {
		if len(allowed) == 0 {
			return fmt.Errorf("torrent %d is pre-emphasized and cannot be transcoded", uploadSourceID)
		}
		return fmt.Errorf("format %q not allowed for torrent %d (allowed: %s)",
			uploadFormat, uploadSourceID, strings.Join(allowed, ", "))
	}

	data, err := os.ReadFile(uploadFile)
	if err != nil {
		return fmt.Errorf("failed to read torrent file: %w", err)
	}

	if _, err := client.Upload(ctx, info.Group, info.Torrent, data, uploadFormat, uploadDescription); err != nil {
		return err
	}

	fmt.Printf("✓ Uploaded %s transcode to group %d (%s)\n", uploadFormat, info.Group.ID, info.Group.Name)
	return nil
}

// set24bitCmd represents the set24bit command
var set24bitCmd = &cobra.Command{
	Use:   "set24bit",
	Short: "Mark a torrent's bitrate as 24bit Lossless",
	Long:  `Open the torrent's edit form and change its bitrate to 24bit Lossless.`,
	RunE:  runSet24Bit,
}

func runSet24Bit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	info, err := client.GetTorrentInfo(ctx, set24bitID)
	if err != nil {
		return err
	}

	if _, err := client.Set24Bit(ctx, info.Torrent); err != nil {
		return err
	}

	fmt.Printf("✓ Torrent %d marked as 24bit Lossless\n", set24bitID)
	return nil
}
