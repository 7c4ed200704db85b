// Package gazelle provides a client for Gazelle-style private tracker
// web APIs.
//
// A Client owns an authenticated session and a shared rate limiter;
// every JSON-API call and raw torrent download serializes on that
// limiter, so one client instance never exceeds the tracker's request
// pacing even under concurrent callers.
//
// Authentication is selected once at construction, in priority order:
// API key, session cookie, then username/password with an optional TOTP
// second factor. Only the cookie path falls back (to credentials) on
// failure; everything else returns an *AuthError.
//
//	client, err := gazelle.NewClient(ctx, gazelle.Config{
//		Endpoint: "https://tracker.example",
//		APIKey:   "...",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	artist, err := client.GetArtist(ctx, 207, "FLAC", true)
//
// Two error kinds cover the failure modes: *AuthError for login and
// account-info failures, *RequestError for malformed or unsuccessful
// API responses. Both match sentinel targets via errors.Is. GetTorrent
// is the deliberate exception: an unavailable download returns
// (nil, nil) instead of an error.
package gazelle
