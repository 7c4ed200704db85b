package gazelle

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetTorrent downloads the .torrent payload for a torrent id using the
// session's authkey and passkey (omitted under API-key auth, where the
// authorization header suffices). Anything other than a 200 with the
// bittorrent content type means "not available" and returns (nil, nil)
// rather than an error; a redirect here signals an expired session.
// The limiter is advanced by an extra penalty afterwards since downloads
// count against a separate tracker-enforced limit.
func (c *Client) GetTorrent(ctx context.Context, id int) ([]byte, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.penalize(downloadPenalty)

	q := url.Values{
		"action": {"download"},
		"id":     {strconv.Itoa(id)},
	}
	if !c.apiKeyAuthenticated && c.authkey != "" {
		q.Set("authkey", c.authkey)
		q.Set("torrent_pass", c.passkey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/torrents.php?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Header.Get("Content-Type"), TorrentMIME) {
		c.logger.Debug().
			Int("torrent_id", id).
			Int("status", resp.StatusCode).
			Str("content_type", resp.Header.Get("Content-Type")).
			Msg("torrent not available")
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
