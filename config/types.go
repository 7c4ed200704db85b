package config

// Config represents the complete configuration structure
type Config struct {
	Tracker     TrackerConfig     `mapstructure:"tracker"`
	QBittorrent QBittorrentConfig `mapstructure:"qbittorrent"`
	Lidarr      LidarrConfig      `mapstructure:"lidarr"`
	Download    DownloadConfig    `mapstructure:"download"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// TrackerConfig holds the tracker endpoint and credentials. At least one
// authentication method must be configured; when several are, the client
// prefers api_key, then session_cookie, then username/password.
type TrackerConfig struct {
	URL           string  `mapstructure:"url"`
	APIKey        string  `mapstructure:"api_key"`
	SessionCookie string  `mapstructure:"session_cookie"`
	Username      string  `mapstructure:"username"`
	Password      string  `mapstructure:"password"`
	TOTP          string  `mapstructure:"totp"`
	RateLimit     float64 `mapstructure:"rate_limit"`
	PageSize      int     `mapstructure:"page_size"`
}

// QBittorrentConfig holds the optional qBittorrent injection target.
type QBittorrentConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	URL      string   `mapstructure:"url"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	Category string   `mapstructure:"category"`
	Tags     []string `mapstructure:"tags"`
	SavePath string   `mapstructure:"save_path"`
	Paused   bool     `mapstructure:"paused"`
}

// LidarrConfig holds the optional Lidarr integration.
type LidarrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// DownloadConfig contains settings for torrent downloads
type DownloadConfig struct {
	Directory   string `mapstructure:"directory"`
	Concurrency int    `mapstructure:"concurrency"`
}

// FilterConfig contains filter presets and the default expression
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
