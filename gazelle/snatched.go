package gazelle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// Snatched pages through the account's snatch history in pageSize chunks,
// invoking fn for every (group, torrent) pair. Paging always starts from
// offset zero and stops at the first empty page; there is no cross-call
// cursor. A non-nil error from fn aborts the iteration and is returned.
func (c *Client) Snatched(ctx context.Context, fn func(groupID, torrentID int) error) error {
	for page := 0; ; page++ {
		params := url.Values{
			"id":     {strconv.Itoa(c.userID)},
			"type":   {"snatched"},
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(page * c.pageSize)},
		}

		raw, err := c.Request(ctx, "user_torrents", params)
		if err != nil {
			return err
		}

		var resp snatchedPage
		if err := json.Unmarshal(raw, &resp); err != nil {
			return &RequestError{Action: "user_torrents", Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		if len(resp.Snatched) == 0 {
			return nil
		}

		c.logger.Debug().
			Int("offset", page*c.pageSize).
			Int("count", len(resp.Snatched)).
			Msg("fetched snatched page")

		for _, entry := range resp.Snatched {
			if err := fn(int(entry.GroupID), int(entry.TorrentID)); err != nil {
				return err
			}
		}
	}
}

// SnatchedAll collects the full snatch history into a slice.
func (c *Client) SnatchedAll(ctx context.Context) ([]SnatchedPair, error) {
	var pairs []SnatchedPair
	err := c.Snatched(ctx, func(groupID, torrentID int) error {
		pairs = append(pairs, SnatchedPair{GroupID: groupID, TorrentID: torrentID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
