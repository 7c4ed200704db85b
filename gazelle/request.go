package gazelle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
)

// envelope is the fixed wrapper around every AJAX response. A status other
// than "success" is an error regardless of the HTTP status code.
type envelope struct {
	Status   string          `json:"status"`
	Error    string          `json:"error"`
	Response json.RawMessage `json:"response"`
}

// Request issues a rate-limited GET against the AJAX endpoint and returns
// the envelope's response payload. Redirects are not followed; when the
// session has expired the tracker redirects to the login page, which then
// fails envelope parsing. The limiter timestamp is updated whether or not
// the request succeeds.
func (c *Client) Request(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.touch()

	q := url.Values{}
	q.Set("action", action)
	if !c.apiKeyAuthenticated && c.authkey != "" {
		q.Set("auth", c.authkey)
	}
	// caller params may override computed ones
	for k, vs := range params {
		q[k] = vs
	}

	body, _, err := c.get(ctx, c.endpoint+"/ajax.php?"+q.Encode())
	if err != nil {
		return nil, &RequestError{Action: action, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &RequestError{Action: action, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if env.Status != "success" {
		c.logger.Debug().Str("action", action).Str("status", env.Status).Str("error", env.Error).Msg("API request rejected")
		return nil, &RequestError{Action: action, Status: env.Status}
	}

	return env.Response, nil
}

// RequestHTML fetches a tracker HTML page through the same limiter and
// no-redirect policy as Request and returns the raw page body.
func (c *Client) RequestHTML(ctx context.Context, page string, params url.Values) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}
	defer c.limiter.touch()

	rawURL := c.endpoint + "/" + page
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	body, status, err := c.get(ctx, rawURL)
	if err != nil {
		return "", &RequestError{Action: page, Err: err}
	}
	if status != http.StatusOK {
		return "", &RequestError{Action: page, Err: fmt.Errorf("unexpected status code: %d", status)}
	}
	return string(body), nil
}

// get performs a GET with the session headers attached and redirects
// disabled, returning the full body and status code.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
