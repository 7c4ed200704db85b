package gazelle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// FormSubmitter is the capability interface for the HTML form collaborator:
// open a tracker page, locate a form by CSS class, fill its fields and
// submit it. Validation of the form's existence and shape is the
// implementation's concern.
type FormSubmitter interface {
	Open(ctx context.Context, pageURL, class string) (FormHandle, error)
}

// FormHandle is a located form ready to be filled and submitted.
type FormHandle interface {
	Set(name, value string)
	Submit(ctx context.Context, files ...FileUpload) ([]byte, error)
}

// FileUpload is a file part attached to a form submission.
type FileUpload struct {
	Field   string
	Name    string
	MIME    string
	Content []byte
}

// uploadFormClass identifies the upload/edit form on tracker pages.
const uploadFormClass = "create_form"

// Upload submits a new torrent to an existing group, copying the remaster
// metadata from the source torrent and setting format/bitrate from the
// transcode key. Returns the raw submission response body.
func (c *Client) Upload(ctx context.Context, group Group, source Torrent, torrentFile []byte, format string, description []string) ([]byte, error) {
	if c.forms == nil {
		return nil, ErrNoFormSubmitter
	}
	f, ok := Formats[format]
	if !ok {
		return nil, fmt.Errorf("gazelle: unknown format %q", format)
	}

	pageURL := fmt.Sprintf("%s/upload.php?groupid=%d", c.endpoint, group.ID)
	form, err := c.forms.Open(ctx, pageURL, uploadFormClass)
	if err != nil {
		return nil, err
	}

	if source.Remastered {
		form.Set("remaster_year", strconv.Itoa(source.RemasterYear))
		form.Set("remaster_title", source.RemasterTitle)
		form.Set("remaster_record_label", source.RemasterRecordLabel)
		form.Set("remaster_catalogue_number", source.RemasterCatalogueNumber)
	} else {
		form.Set("remaster_year", "")
		form.Set("remaster_title", "")
		form.Set("remaster_record_label", "")
		form.Set("remaster_catalogue_number", "")
	}

	form.Set("format", f.Format)
	form.Set("bitrate", f.Encoding)
	form.Set("media", source.Media)

	if desc := strings.Join(description, "\n"); desc != "" {
		form.Set("release_desc", desc)
	}

	c.logger.Info().
		Int("group_id", group.ID).
		Str("format", format).
		Msg("submitting upload")

	return form.Submit(ctx, FileUpload{
		Field:   "file_input",
		Name:    "1.torrent",
		MIME:    TorrentMIME,
		Content: torrentFile,
	})
}

// Set24Bit edits a torrent's bitrate to 24bit Lossless through the edit
// form.
func (c *Client) Set24Bit(ctx context.Context, t Torrent) ([]byte, error) {
	if c.forms == nil {
		return nil, ErrNoFormSubmitter
	}

	pageURL := fmt.Sprintf("%s/torrents.php?action=edit&id=%d", c.endpoint, t.ID)
	form, err := c.forms.Open(ctx, pageURL, uploadFormClass)
	if err != nil {
		return nil, err
	}

	form.Set("bitrate", "24bit Lossless")

	c.logger.Info().Int("torrent_id", t.ID).Msg("submitting 24bit edit")
	return form.Submit(ctx)
}
