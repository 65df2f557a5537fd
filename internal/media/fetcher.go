package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
)

const octetStream = "application/octet-stream"

// Fetcher downloads media over HTTP with retries on transient failures.
type Fetcher struct {
	client   *retryablehttp.Client
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger routes retry diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.client.Logger = l.With(logger.Component("media"))
		}
	}
}

// WithHTTPClient replaces the underlying transport client, for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client.HTTPClient = c
		}
	}
}

// New returns a Fetcher configured from cfg.
func New(cfg Config, opts ...Option) *Fetcher {
	rc := retryablehttp.NewClient()
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	f := &Fetcher{client: rc, maxBytes: cfg.MaxBytes}
	if f.maxBytes <= 0 {
		f.maxBytes = 64 << 20
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL. The MIME type comes from Content-Type when it is
// specific, otherwise from the content itself, falling back to
// application/octet-stream. The file name comes from Content-Disposition or
// the URL path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*transport.Media, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	mimeType := detectMimeType(resp.Header.Get("Content-Type"), data)
	return &transport.Media{
		Data:     data,
		MimeType: mimeType,
		FileName: fileName(resp.Header.Get("Content-Disposition"), u, mimeType),
	}, nil
}

func detectMimeType(contentType string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "" && mt != octetStream {
		return mt
	}
	if mt, _, err := mime.ParseMediaType(mimetype.Detect(data).String()); err == nil && mt != "" {
		return mt
	}
	return octetStream
}

func fileName(disposition string, u *url.URL, mimeType string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := path.Base(strings.ReplaceAll(params["filename"], `\`, "/")); name != "" && name != "." && name != "/" {
			return name
		}
	}
	if name := path.Base(u.Path); name != "" && name != "." && name != "/" && !strings.HasSuffix(u.Path, "/") {
		return name
	}
	ext := ""
	if m := mimetype.Lookup(mimeType); m != nil {
		ext = m.Extension()
	}
	return "file" + ext
}

var _ transport.MediaFetcher = (*Fetcher)(nil)
