// Package qbit wraps the qBittorrent API for injecting downloaded
// .torrent payloads into a client instance.
package qbit

import (
	"context"
	"fmt"
	"strings"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client.
type Client struct {
	client *qbittorrent.Client
	logger zerolog.Logger
}

// NewClient creates a qBittorrent client and verifies the connection by
// logging in.
func NewClient(url, username, password string, logger zerolog.Logger) (*Client, error) {
	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:     url,
		Username: username,
		Password: password,
	})

	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("failed to connect to qBittorrent: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// AddOptions controls how an injected torrent is registered.
type AddOptions struct {
	Category string
	Tags     []string
	SavePath string
	Paused   bool
}

// AddTorrent injects raw .torrent bytes into qBittorrent.
func (c *Client) AddTorrent(ctx context.Context, data []byte, opts AddOptions) error {
	options := map[string]string{}
	if opts.Category != "" {
		options["category"] = opts.Category
	}
	if len(opts.Tags) > 0 {
		options["tags"] = strings.Join(opts.Tags, ",")
	}
	if opts.SavePath != "" {
		options["savepath"] = opts.SavePath
	}
	if opts.Paused {
		options["paused"] = "true"
	}

	if err := c.client.AddTorrentFromMemoryCtx(ctx, data, options); err != nil {
		return fmt.Errorf("failed to add torrent: %w", err)
	}

	c.logger.Info().
		Str("category", opts.Category).
		Int("size", len(data)).
		Msg("added torrent to qBittorrent")
	return nil
}
