package gazelle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeForm records Set calls and the submitted files.
type fakeForm struct {
	fields map[string]string
	files  []FileUpload
}

func (f *fakeForm) Set(name, value string) {
	f.fields[name] = value
}

func (f *fakeForm) Submit(ctx context.Context, files ...FileUpload) ([]byte, error) {
	f.files = files
	return []byte("ok"), nil
}

// fakeSubmitter hands out a single recorded form.
type fakeSubmitter struct {
	openedURL   string
	openedClass string
	form        *fakeForm
}

func (s *fakeSubmitter) Open(ctx context.Context, pageURL, class string) (FormHandle, error) {
	s.openedURL = pageURL
	s.openedClass = class
	s.form = &fakeForm{fields: make(map[string]string)}
	return s.form, nil
}

func newUploadTestClient(t *testing.T) (*Client, *fakeSubmitter, func()) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", accountInfoHandler)
	server := httptest.NewServer(mux)

	submitter := &fakeSubmitter{}
	client := newTestClient(t, server, Config{APIKey: "key", Forms: submitter})
	return client, submitter, server.Close
}

func TestUploadRemasteredSource(t *testing.T) {
	client, submitter, closeServer := newUploadTestClient(t)
	defer closeServer()

	group := Group{ID: 777, Name: "Some Album"}
	source := Torrent{
		ID:                      10,
		Media:                   "CD",
		Remastered:              true,
		RemasterYear:            1999,
		RemasterTitle:           "Remaster",
		RemasterRecordLabel:     "Label",
		RemasterCatalogueNumber: "CAT-001",
	}

	body, err := client.Upload(context.Background(), group, source, []byte("torrent-bytes"), "V0", []string{"line one", "line two"})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)

	assert.Contains(t, submitter.openedURL, "/upload.php?groupid=777")
	assert.Equal(t, "create_form", submitter.openedClass)

	fields := submitter.form.fields
	assert.Equal(t, "1999", fields["remaster_year"])
	assert.Equal(t, "Remaster", fields["remaster_title"])
	assert.Equal(t, "Label", fields["remaster_record_label"])
	assert.Equal(t, "CAT-001", fields["remaster_catalogue_number"])
	assert.Equal(t, "MP3", fields["format"])
	assert.Equal(t, "V0 (VBR)", fields["bitrate"])
	assert.Equal(t, "CD", fields["media"])
	assert.Equal(t, "line one\nline two", fields["release_desc"])

	require.Len(t, submitter.form.files, 1)
	file := submitter.form.files[0]
	assert.Equal(t, "file_input", file.Field)
	assert.Equal(t, "1.torrent", file.Name)
	assert.Equal(t, TorrentMIME, file.MIME)
	assert.Equal(t, []byte("torrent-bytes"), file.Content)
}

func TestUploadOriginalPressingBlanksRemasterFields(t *testing.T) {
	client, submitter, closeServer := newUploadTestClient(t)
	defer closeServer()

	source := Torrent{ID: 10, Media: "WEB", Remastered: false}

	_, err := client.Upload(context.Background(), Group{ID: 1}, source, []byte("x"), "FLAC", nil)
	require.NoError(t, err)

	fields := submitter.form.fields
	assert.Equal(t, "", fields["remaster_year"])
	assert.Equal(t, "", fields["remaster_title"])
	assert.Equal(t, "", fields["remaster_record_label"])
	assert.Equal(t, "", fields["remaster_catalogue_number"])
	assert.Equal(t, "FLAC", fields["format"])
	assert.Equal(t, "Lossless", fields["bitrate"])

	// no description lines, so the field stays untouched
	_, ok := fields["release_desc"]
	assert.False(t, ok)
}

func TestUploadUnknownFormat(t *testing.T) {
	client, _, closeServer := newUploadTestClient(t)
	defer closeServer()

	_, err := client.Upload(context.Background(), Group{ID: 1}, Torrent{}, []byte("x"), "AAC", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestUploadWithoutFormSubmitter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax.php", accountInfoHandler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server, Config{APIKey: "key"})

	_, err := client.Upload(context.Background(), Group{ID: 1}, Torrent{}, []byte("x"), "FLAC", nil)
	require.ErrorIs(t, err, ErrNoFormSubmitter)

	_, err = client.Set24Bit(context.Background(), Torrent{ID: 2})
	require.ErrorIs(t, err, ErrNoFormSubmitter)
}

func TestSet24Bit(t *testing.T) {
	client, submitter, closeServer := newUploadTestClient(t)
	defer closeServer()

	_, err := client.Set24Bit(context.Background(), Torrent{ID: 321})
	require.NoError(t, err)

	assert.Contains(t, submitter.openedURL, "/torrents.php?action=edit&id=321")
	assert.Equal(t, "24bit Lossless", submitter.form.fields["bitrate"])
	assert.Empty(t, submitter.form.files)
}
