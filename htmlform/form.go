// Package htmlform implements the form-submission collaborator used for
// tracker upload and edit pages: fetch a page, locate a form by CSS
// class, fill its fields and submit it, multipart when a file payload is
// attached.
package htmlform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/s0up4200/gazellectl/gazelle"
)

// Submitter opens and submits tracker HTML forms. It must share the
// authenticated session's http.Client so the cookie jar travels with it.
type Submitter struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// New creates a Submitter on top of an authenticated HTTP client.
func New(httpClient *http.Client, logger zerolog.Logger) *Submitter {
	return &Submitter{
		httpClient: httpClient,
		userAgent:  "gazellectl",
		logger:     logger,
	}
}

// Open fetches pageURL and parses the first form carrying the given CSS
// class, collecting its pre-populated fields.
func (s *Submitter) Open(ctx context.Context, pageURL, class string) (gazelle.FormHandle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("htmlform: failed to open %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("htmlform: unexpected status code %d opening %s", resp.StatusCode, pageURL)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("htmlform: failed to parse %s: %w", pageURL, err)
	}

	node := findForm(doc, class)
	if node == nil {
		return nil, fmt.Errorf("htmlform: no form with class %q on %s", class, pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	action := base
	if raw := attr(node, "action"); raw != "" {
		ref, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("htmlform: bad form action %q: %w", raw, err)
		}
		action = base.ResolveReference(ref)
	}

	form := &Form{
		submitter: s,
		action:    action.String(),
		fields:    url.Values{},
	}
	collectFields(node, form.fields)

	s.logger.Debug().
		Str("page", pageURL).
		Str("action", form.action).
		Int("fields", len(form.fields)).
		Msg("opened form")

	return form, nil
}

// Form is a located form with its pre-populated field values.
type Form struct {
	submitter *Submitter
	action    string
	fields    url.Values
}

// Set assigns a field value, replacing any pre-populated one.
func (f *Form) Set(name, value string) {
	f.fields.Set(name, value)
}

// Submit posts the form to its action URL. With file payloads the body is
// multipart/form-data, otherwise a regular urlencoded POST. Returns the
// raw response body.
func (f *Form) Submit(ctx context.Context, files ...gazelle.FileUpload) ([]byte, error) {
	var req *http.Request
	var err error

	if len(files) > 0 {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for name, values := range f.fields {
			for _, v := range values {
				if err := w.WriteField(name, v); err != nil {
					return nil, err
				}
			}
		}
		for _, file := range files {
			// CreateFormFile would hardcode application/octet-stream;
			// the tracker expects the part's declared MIME type.
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
			if file.MIME != "" {
				header.Set("Content-Type", file.MIME)
			}
			part, err := w.CreatePart(header)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(file.Content); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}

		req, err = http.NewRequestWithContext(ctx, http.MethodPost, f.action, &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, f.action, strings.NewReader(f.fields.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", f.submitter.userAgent)

	resp, err := f.submitter.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("htmlform: submission failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("htmlform: submission returned status %d", resp.StatusCode)
	}
	return body, nil
}

// findForm walks the document for the first <form> whose class attribute
// contains class as a whole word.
func findForm(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "form" {
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findForm(c, class); found != nil {
			return found
		}
	}
	return nil
}

// collectFields gathers the form's submittable controls: named inputs
// (checked checkboxes/radios only, file and button types skipped),
// selects (selected option, else the first) and textareas.
func collectFields(n *html.Node, fields url.Values) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "input":
			name := attr(n, "name")
			typ := strings.ToLower(attr(n, "type"))
			switch {
			case name == "":
			case typ == "file" || typ == "submit" || typ == "button" || typ == "image" || typ == "reset":
			case typ == "checkbox" || typ == "radio":
				if hasAttr(n, "checked") {
					value := attr(n, "value")
					if value == "" {
						value = "on"
					}
					fields.Add(name, value)
				}
			default:
				fields.Add(name, attr(n, "value"))
			}
		case "select":
			if name := attr(n, "name"); name != "" {
				if value, ok := selectedOption(n); ok {
					fields.Add(name, value)
				}
			}
		case "textarea":
			if name := attr(n, "name"); name != "" {
				fields.Add(name, textContent(n))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectFields(c, fields)
	}
}

func selectedOption(sel *html.Node) (string, bool) {
	var first string
	var haveFirst bool
	for c := sel.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "option" {
			continue
		}
		value := attr(c, "value")
		if value == "" {
			value = textContent(c)
		}
		if hasAttr(c, "selected") {
			return value, true
		}
		if !haveFirst {
			first, haveFirst = value, true
		}
	}
	return first, haveFirst
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
