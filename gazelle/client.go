package gazelle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultRateLimit is the minimum interval between outbound requests.
	DefaultRateLimit = 2 * time.Second

	// DefaultPageSize is the page size used when paging the snatched list.
	DefaultPageSize = 2000

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "gazellectl"

	// TorrentMIME is the content type the tracker serves .torrent payloads with.
	TorrentMIME = "application/x-bittorrent"

	// downloadPenalty is added to the limiter after a raw torrent download,
	// since downloads count against a separate tracker-enforced limit.
	downloadPenalty = 2 * time.Second
)

// Config holds the connection and credential configuration for a Client.
// Exactly one authentication path must be satisfiable; when several are
// configured the client picks the first of: APIKey, SessionCookie,
// Username/Password.
type Config struct {
	Endpoint string // base URL of the tracker, without trailing slash

	APIKey        string
	SessionCookie string
	Username      string
	Password      string
	TOTP          string // optional second-factor code for password login

	RateLimit time.Duration // minimum interval between requests (default 2s)
	PageSize  int           // snatched-list page size (default 2000)
	UserAgent string

	// HTTPClient is the transport used for all requests. When nil a client
	// with a fresh cookie jar is created. A supplied client is given a
	// cookie jar if it has none, since session auth depends on it.
	HTTPClient *http.Client

	// Forms handles HTML form submission for upload/edit operations.
	// Optional; Upload and Set24Bit fail without it.
	Forms FormSubmitter
}

// Client is an authenticated session against a Gazelle tracker.
//
// All JSON-API traffic goes through Request, which serializes callers on a
// shared rate limiter. A Client is safe for concurrent use; concurrent
// operations simply queue on the limiter.
type Client struct {
	endpoint      string
	apiKey        string
	sessionCookie string
	username      string
	password      string
	totp          string
	userAgent     string
	pageSize      int

	httpClient *http.Client
	noRedirect *http.Client
	limiter    *rateLimiter
	forms      FormSubmitter
	logger     zerolog.Logger

	// session state, populated by the login routine
	authHeader          string
	apiKeyAuthenticated bool
	authkey             string
	passkey             string
	userID              int
}

// NewClient creates a client and authenticates it. The strategy is chosen
// once, in priority order APIKey > SessionCookie > Username/Password; a
// failed cookie login falls back to credentials, every other failure
// returns an *AuthError.
func NewClient(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("gazelle: endpoint is required")
	}
	if cfg.APIKey == "" && cfg.SessionCookie == "" && cfg.Username == "" {
		return nil, fmt.Errorf("gazelle: no authentication method configured")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("gazelle: failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	// A redirect on the AJAX or download endpoints signals an expired
	// session, not a page to follow.
	noRedirect := &http.Client{
		Timeout: httpClient.Timeout,
		Jar:     httpClient.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:        cfg.APIKey,
		sessionCookie: cfg.SessionCookie,
		username:      cfg.Username,
		password:      cfg.Password,
		totp:          cfg.TOTP,
		userAgent:     userAgent,
		pageSize:      pageSize,
		httpClient:    httpClient,
		noRedirect:    noRedirect,
		limiter:       newRateLimiter(rateLimit),
		forms:         cfg.Forms,
		logger:        logger,
	}

	if err := c.login(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// UserID returns the authenticated account's user id.
func (c *Client) UserID() int {
	return c.userID
}

// APIKeyAuthenticated reports whether the session uses API-key auth.
func (c *Client) APIKeyAuthenticated() bool {
	return c.apiKeyAuthenticated
}

// PageSize returns the snatched-list page size.
func (c *Client) PageSize() int {
	return c.pageSize
}
