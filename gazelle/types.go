package gazelle

import (
	"bytes"
	"strconv"
)

// AccountInfo is the slice of the index response the client needs: the
// per-session tokens and the account id, which always arrive together.
type AccountInfo struct {
	Authkey  string `json:"authkey"`
	Passkey  string `json:"passkey"`
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Torrent is a single encoding of a release as returned by the API.
// Records are immutable snapshots; the client filters and selects among
// them but never mutates server-side state through them.
type Torrent struct {
	ID                      int    `json:"id"`
	GroupID                 int    `json:"groupId"`
	Media                   string `json:"media"`
	Format                  string `json:"format"`
	Encoding                string `json:"encoding"`
	Remastered              bool   `json:"remastered"`
	RemasterYear            int    `json:"remasterYear"`
	RemasterTitle           string `json:"remasterTitle"`
	RemasterRecordLabel     string `json:"remasterRecordLabel"`
	RemasterCatalogueNumber string `json:"remasterCatalogueNumber"`
	Scene                   bool   `json:"scene"`
	HasLog                  bool   `json:"hasLog"`
	HasCue                  bool   `json:"hasCue"`
	LogScore                int    `json:"logScore"`
	FileCount               int    `json:"fileCount"`
	Size                    int64  `json:"size"`
	Seeders                 int    `json:"seeders"`
	Leechers                int    `json:"leechers"`
	Snatched                int    `json:"snatched"`
	FreeTorrent             bool   `json:"freeTorrent"`
	Time                    string `json:"time"`
	Description             string `json:"description"`
	FilePath                string `json:"filePath"`
	UserID                  int    `json:"userId"`
	Username                string `json:"username"`
}

// TorrentGroup is a release (album) carrying one or more torrent
// encodings.
type TorrentGroup struct {
	GroupID         int       `json:"groupId"`
	GroupName       string    `json:"groupName"`
	GroupYear       int       `json:"groupYear"`
	GroupRecordLabel string   `json:"groupRecordLabel"`
	ReleaseType     int       `json:"releaseType"`
	HasBookmarked   bool      `json:"hasBookmarked"`
	Torrents        []Torrent `json:"torrent"`
}

// ArtistResponse is the artist endpoint payload, reduced to the fields the
// client consumes.
type ArtistResponse struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	TorrentGroups []TorrentGroup `json:"torrentgroup"`
}

// Group is the group half of the torrent-info payload.
type Group struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Year            int    `json:"year"`
	RecordLabel     string `json:"recordLabel"`
	CatalogueNumber string `json:"catalogueNumber"`
	ReleaseType     int    `json:"releaseType"`
}

// TorrentInfo is the torrent endpoint payload: a group plus one torrent.
type TorrentInfo struct {
	Group   Group   `json:"group"`
	Torrent Torrent `json:"torrent"`
}

// flexInt decodes Gazelle ids that arrive either as numbers or as quoted
// strings, which the snatched list is known to do.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// SnatchedEntry is one row of the user_torrents snatched listing.
type SnatchedEntry struct {
	GroupID   flexInt `json:"groupId"`
	TorrentID flexInt `json:"torrentId"`
}

type snatchedPage struct {
	Snatched []SnatchedEntry `json:"snatched"`
}

// SnatchedPair is a (group, torrent) id pair from the snatch history.
type SnatchedPair struct {
	GroupID   int
	TorrentID int
}

// BetterEntry is one transcode candidate scraped from better.php.
type BetterEntry struct {
	ID        int
	Permalink string
	Download  string
}
