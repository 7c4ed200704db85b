package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/gazellectl/filter"
	"github.com/s0up4200/gazellectl/gazelle"
)

func TestFilterBetterEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("action") {
		case "index":
			fmt.Fprint(w, `{"status":"success","response":{"authkey":"ak","passkey":"pk","id":1}}`)
		case "torrent":
			switch q.Get("id") {
			case "900":
				fmt.Fprint(w, `{"status":"success","response":{"group":{"id":500},"torrent":{"id":900,"format":"FLAC","media":"CD","seeders":10}}}`)
			case "901":
				fmt.Fprint(w, `{"status":"success","response":{"group":{"id":501},"torrent":{"id":901,"format":"FLAC","media":"WEB","seeders":2}}}`)
			default:
				t.Errorf("unexpected torrent id %q", q.Get("id"))
			}
		default:
			t.Errorf("unexpected action %q", q.Get("action"))
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := gazelle.NewClient(context.Background(), gazelle.Config{
		Endpoint:  server.URL,
		APIKey:    "key",
		RateLimit: time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)

	entries := []gazelle.BetterEntry{
		{ID: 900, Permalink: "torrents.php?id=500&torrentid=900#torrent900"},
		{ID: 901, Permalink: "torrents.php?id=501&torrentid=901#torrent901"},
	}

	match, err := filter.New(`Media == "CD" && Seeders > 5`)
	require.NoError(t, err)

	kept, err := filterBetterEntries(context.Background(), c, entries, match)
	require.NoError(t, err)

	require.Len(t, kept, 1)
	assert.Equal(t, 900, kept[0].ID)
}

func TestFilterBetterEntriesNoMatches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "index" {
			fmt.Fprint(w, `{"status":"success","response":{"authkey":"ak","passkey":"pk","id":1}}`)
			return
		}
		fmt.Fprint(w, `{"status":"success","response":{"group":{"id":500},"torrent":{"id":900,"format":"MP3","seeders":1}}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := gazelle.NewClient(context.Background(), gazelle.Config{
		Endpoint:  server.URL,
		APIKey:    "key",
		RateLimit: time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)

	match, err := filter.New(`Format == "FLAC"`)
	require.NoError(t, err)

	kept, err := filterBetterEntries(context.Background(), c,
		[]gazelle.BetterEntry{{ID: 900}}, match)
	require.NoError(t, err)
	assert.Empty(t, kept)
}
