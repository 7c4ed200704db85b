package gazelle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReturnsResponsePayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "index" {
			accountInfoHandler(w, r)
			return
		}
		fmt.Fprint(w, `{"status":"success","response":{"value":7}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	raw, err := client.Request(context.Background(), "browse", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":7}`, string(raw))
}

func TestRequestFailureStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "index" {
			accountInfoHandler(w, r)
			return
		}
		// HTTP 200 but a rejecting envelope
		fmt.Fprint(w, `{"status":"failure","error":"bad parameters"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	_, err := client.Request(context.Background(), "torrent", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRequest)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "torrent", reqErr.Action)
	assert.Equal(t, "failure", reqErr.Status)
}

func TestRequestInvalidJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "index" {
			accountInfoHandler(w, r)
			return
		}
		fmt.Fprint(w, "<html>login page</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	_, err := client.Request(context.Background(), "browse", nil)
	require.ErrorIs(t, err, ErrRequest)
}

func TestRequestAuthParam(t *testing.T) {
	t.Run("password session sends auth", func(t *testing.T) {
		var lastQuery url.Values
		mux := http.NewServeMux()
		mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
			lastQuery = r.URL.Query()
			accountInfoHandler(w, r)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server, Config{Username: "user", Password: "pass"})

		_, err := client.Request(context.Background(), "browse", nil)
		require.NoError(t, err)
		assert.Equal(t, "test-authkey", lastQuery.Get("auth"))
	})

	t.Run("api key session omits auth", func(t *testing.T) {
		var lastQuery url.Values
		mux := http.NewServeMux()
		mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
			lastQuery = r.URL.Query()
			accountInfoHandler(w, r)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server, Config{APIKey: "key"})

		_, err := client.Request(context.Background(), "browse", nil)
		require.NoError(t, err)
		assert.False(t, lastQuery.Has("auth"))
	})

	t.Run("caller params override", func(t *testing.T) {
		var lastQuery url.Values
		mux := http.NewServeMux()
		mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
			lastQuery = r.URL.Query()
			accountInfoHandler(w, r)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server, Config{Username: "user", Password: "pass"})

		_, err := client.Request(context.Background(), "browse", url.Values{"auth": {"override"}, "id": {"9"}})
		require.NoError(t, err)
		assert.Equal(t, "override", lastQuery.Get("auth"))
		assert.Equal(t, "9", lastQuery.Get("id"))
	})
}

func TestRequestDoesNotFollowRedirects(t *testing.T) {
	var loginPageHits int

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "index" {
			accountInfoHandler(w, r)
			return
		}
		// expired session: tracker bounces to the login page
		http.Redirect(w, r, "/login.php", http.StatusFound)
	})
	mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {
		loginPageHits++
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	_, err := client.Request(context.Background(), "browse", nil)
	require.ErrorIs(t, err, ErrRequest)
	assert.Zero(t, loginPageHits, "redirect target must not be fetched")
}

func TestRequestPacing(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		accountInfoHandler(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	const interval = 50 * time.Millisecond
	client := newTestClient(t, server, Config{APIKey: "key", RateLimit: interval})

	ctx := context.Background()
	_, err := client.Request(ctx, "browse", nil)
	require.NoError(t, err)
	_, err = client.Request(ctx, "browse", nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 3) // login + two requests
	for i := 1; i < len(hits); i++ {
		gap := hits[i].Sub(hits[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "request %d arrived too early", i)
	}
}

func TestRequestConcurrentCallersSerialize(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		accountInfoHandler(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	const interval = 30 * time.Millisecond
	client := newTestClient(t, server, Config{APIKey: "key", RateLimit: interval})

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Request(context.Background(), "browse", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 4)
	for i := 1; i < len(hits); i++ {
		gap := hits[i].Sub(hits[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond)
	}
}

func TestRequestHTML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", accountInfoHandler)
	mux.HandleFunc("/better.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "transcode", r.URL.Query().Get("action"))
		fmt.Fprint(w, "<html>listing</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	body, err := client.RequestHTML(context.Background(), "better.php", url.Values{"action": {"transcode"}})
	require.NoError(t, err)
	assert.Equal(t, "<html>listing</html>", body)
}
