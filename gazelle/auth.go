package gazelle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// login selects and runs the authentication strategy. The session-cookie
// path is the only one allowed to fail quietly; it falls back to
// username/password with a warning.
func (c *Client) login(ctx context.Context) error {
	switch {
	case c.apiKey != "":
		return c.loginAPIKey(ctx)
	case c.sessionCookie != "":
		if err := c.loginCookie(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("session cookie authentication failed, falling back to username/password")
			return c.loginPassword(ctx)
		}
		return nil
	default:
		return c.loginPassword(ctx)
	}
}

// loginAPIKey attaches the key as an authorization header and validates it
// with an account-info fetch. The header persists on every request, so no
// auth query parameter is needed afterwards.
func (c *Client) loginAPIKey(ctx context.Context) error {
	c.authHeader = c.apiKey
	if err := c.fetchAccountInfo(ctx); err != nil {
		return err
	}
	c.apiKeyAuthenticated = true
	c.logger.Debug().Int("user_id", c.userID).Msg("authenticated with API key")
	return nil
}

// loginCookie injects the configured session cookie into the jar, requests
// the login page to validate it, then fetches account info.
func (c *Client) loginCookie(ctx context.Context) error {
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return &AuthError{Stage: StageCookie, Err: err}
	}
	c.httpClient.Jar.SetCookies(base, []*http.Cookie{{Name: "session", Value: c.sessionCookie}})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/login.php", nil)
	if err != nil {
		return &AuthError{Stage: StageCookie, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Stage: StageCookie, Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &AuthError{Stage: StageCookie, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if err := c.fetchAccountInfo(ctx); err != nil {
		return err
	}
	c.logger.Debug().Int("user_id", c.userID).Msg("authenticated with session cookie")
	return nil
}

// loginPassword posts the credentials to the login endpoint, submits the
// TOTP second factor when configured, then fetches account info.
func (c *Client) loginPassword(ctx context.Context) error {
	if c.username == "" {
		return &AuthError{Stage: StageCredentials, Err: fmt.Errorf("username not set")}
	}

	loginURL := c.endpoint + "/login.php"
	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}
	if err := c.postForm(ctx, loginURL, form); err != nil {
		return &AuthError{Stage: StageCredentials, Err: err}
	}

	if c.totp != "" {
		form := url.Values{"2fa": {c.totp}}
		if err := c.postForm(ctx, loginURL+"?act=2fa", form); err != nil {
			return &AuthError{Stage: StageTwoFactor, Err: err}
		}
	}

	if err := c.fetchAccountInfo(ctx); err != nil {
		return err
	}
	c.logger.Debug().Int("user_id", c.userID).Msg("authenticated with username/password")
	return nil
}

// postForm submits a login form and fails on any non-200 outcome.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// fetchAccountInfo issues an authenticated index request and stores the
// session tokens. authkey, passkey and user id always arrive together.
func (c *Client) fetchAccountInfo(ctx context.Context) error {
	raw, err := c.Request(ctx, "index", nil)
	if err != nil {
		return &AuthError{Stage: StageAccountInfo, Err: err}
	}
	if len(raw) == 0 || string(raw) == "null" {
		return &AuthError{Stage: StageAccountInfo, Err: fmt.Errorf("empty account info response")}
	}

	var info AccountInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return &AuthError{Stage: StageAccountInfo, Err: fmt.Errorf("failed to decode account info: %w", err)}
	}

	c.authkey = info.Authkey
	c.passkey = info.Passkey
	c.userID = info.ID
	return nil
}

// Logout invalidates the session server-side using the held authkey.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/logout.php?auth=%s", c.endpoint, url.QueryEscape(c.authkey)), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	c.authkey = ""
	c.passkey = ""
	c.logger.Debug().Msg("logged out")
	return nil
}
