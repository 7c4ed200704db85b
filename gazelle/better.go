package gazelle

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strconv"
)

// The transcode listing pairs a download link and a permalink per torrent.
// Go's regexp has no backreferences, so the two link kinds are extracted
// separately and joined on the torrent id.
var (
	betterDownloadRe  = regexp.MustCompile(`torrents\.php\?action=download&(?:amp;)?id=(\d+)[^"]*`)
	betterPermalinkRe = regexp.MustCompile(`torrents\.php\?id=\d+(?:&amp;|&)torrentid=(\d+)#torrent\d+`)
)

// GetBetter scrapes the better.php transcode listing and returns the
// torrents eligible for transcoding, each with its permalink and download
// link. Pure extraction; no client state is touched beyond the shared
// limiter.
func (c *Client) GetBetter(ctx context.Context, typ int) ([]BetterEntry, error) {
	page, err := c.RequestHTML(ctx, "better.php", url.Values{
		"action": {"transcode"},
		"type":   {strconv.Itoa(typ)},
	})
	if err != nil {
		return nil, err
	}

	permalinks := make(map[int]string)
	for _, m := range betterPermalinkRe.FindAllStringSubmatch(page, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := permalinks[id]; !ok {
			permalinks[id] = html.UnescapeString(m[0])
		}
	}

	var entries []BetterEntry
	seen := make(map[int]bool)
	for _, m := range betterDownloadRe.FindAllStringSubmatch(page, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil || seen[id] {
			continue
		}
		permalink, ok := permalinks[id]
		if !ok {
			continue
		}
		seen[id] = true
		entries = append(entries, BetterEntry{
			ID:        id,
			Permalink: permalink,
			Download:  html.UnescapeString(m[0]),
		})
	}

	c.logger.Debug().Int("type", typ).Int("count", len(entries)).Msg("scraped transcode candidates")
	return entries, nil
}
