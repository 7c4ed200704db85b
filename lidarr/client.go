// Package lidarr wraps the starr Lidarr client for the post-download
// library integration: after torrents land in the download directory,
// Lidarr can be told to scan for them.
package lidarr

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/lidarr"
)

// Client wraps the starr Lidarr client.
type Client struct {
	client *lidarr.Lidarr
	logger zerolog.Logger
}

// NewClient creates a Lidarr client and verifies the connection.
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	lidarrClient := lidarr.New(config)

	if err := lidarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Lidarr: %w", err)
	}

	return &Client{
		client: lidarrClient,
		logger: logger,
	}, nil
}

// ScanDownloads asks Lidarr to scan for completed downloads.
func (c *Client) ScanDownloads(ctx context.Context) error {
	cmd := &lidarr.CommandRequest{Name: "DownloadedAlbumsScan"}
	if _, err := c.client.SendCommandContext(ctx, cmd); err != nil {
		return fmt.Errorf("failed to trigger downloads scan: %w", err)
	}

	c.logger.Info().Msg("triggered Lidarr downloads scan")
	return nil
}
