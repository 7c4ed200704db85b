package gazelle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// GetArtist fetches an artist's torrent groups and filters each group's
// torrents to the requested format. With bestSeeded only the single
// highest-seeded matching torrent survives per group (strict comparison,
// first seen wins a tie); otherwise all matching torrents are kept.
// Groups with no matching torrents are dropped.
func (c *Client) GetArtist(ctx context.Context, id int, format string, bestSeeded bool) (*ArtistResponse, error) {
	raw, err := c.Request(ctx, "artist", url.Values{"id": {strconv.Itoa(id)}})
	if err != nil {
		return nil, err
	}

	var artist ArtistResponse
	if err := json.Unmarshal(raw, &artist); err != nil {
		return nil, &RequestError{Action: "artist", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	kept := make([]TorrentGroup, 0, len(artist.TorrentGroups))
	for _, group := range artist.TorrentGroups {
		group.Torrents = filterByFormat(group.Torrents, format, bestSeeded)
		if len(group.Torrents) > 0 {
			kept = append(kept, group)
		}
	}
	artist.TorrentGroups = kept

	c.logger.Debug().
		Int("artist_id", id).
		Str("format", format).
		Bool("best_seeded", bestSeeded).
		Int("groups", len(kept)).
		Msg("filtered artist torrent groups")

	return &artist, nil
}

// filterByFormat keeps the torrents matching format. In bestSeeded mode
// only seeder counts among matching torrents are compared, so a
// higher-seeded torrent of another format can never shadow the result.
func filterByFormat(torrents []Torrent, format string, bestSeeded bool) []Torrent {
	var kept []Torrent
	var best *Torrent

	for _, t := range torrents {
		if t.Format != format {
			continue
		}
		if !bestSeeded {
			kept = append(kept, t)
			continue
		}
		if best == nil || t.Seeders > best.Seeders {
			tt := t
			best = &tt
		}
	}

	if bestSeeded {
		if best == nil {
			return nil
		}
		return []Torrent{*best}
	}
	return kept
}
