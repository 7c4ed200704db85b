package gazelle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// GetTorrentInfo fetches a single torrent together with its group.
func (c *Client) GetTorrentInfo(ctx context.Context, id int) (*TorrentInfo, error) {
	raw, err := c.Request(ctx, "torrent", url.Values{"id": {strconv.Itoa(id)}})
	if err != nil {
		return nil, err
	}

	var info TorrentInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &RequestError{Action: "torrent", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &info, nil
}

// ReleaseURL builds the browser URL for a torrent within its group page.
func (c *Client) ReleaseURL(group Group, t Torrent) string {
	return fmt.Sprintf("%s/torrents.php?id=%d&torrentid=%d#torrent%d", c.endpoint, group.ID, t.ID, t.ID)
}

// Permalink builds the canonical URL for a torrent.
func (c *Client) Permalink(t Torrent) string {
	return fmt.Sprintf("%s/torrents.php?torrentid=%d", c.endpoint, t.ID)
}
