package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/internal/media"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newFetcher(maxBytes int64) *media.Fetcher {
	return media.New(media.Config{Timeout: 5 * time.Second, RetryMax: 2, MaxBytes: maxBytes})
}

func TestFetch_UsesContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	}))
	defer srv.Close()

	m, err := newFetcher(0).Fetch(context.Background(), srv.URL+"/docs/invoice.pdf?token=abc")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", m.MimeType)
	assert.Equal(t, "invoice.pdf", m.FileName)
	assert.Equal(t, []byte("%PDF-1.7 body"), m.Data)
}

func TestFetch_SniffsGenericContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	m, err := newFetcher(0).Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, "file.png", m.FileName)
}

func TestFetch_ContentDispositionName(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report 2024.csv"`)
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	m, err := newFetcher(0).Fetch(context.Background(), srv.URL+"/download")
	require.NoError(t, err)
	assert.Equal(t, "report 2024.csv", m.FileName)
	assert.Equal(t, "text/csv", m.MimeType)
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer srv.Close()

	m, err := newFetcher(0).Fetch(context.Background(), srv.URL+"/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", m.MimeType)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_Errors(t *testing.T) {
	t.Parallel()
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	big := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer big.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"bad scheme", "ftp://example.com/x", media.ErrInvalidURL},
		{"no host", "https:///x", media.ErrInvalidURL},
		{"garbage", "::not a url", media.ErrInvalidURL},
		{"not found", notFound.URL + "/x", media.ErrUnexpectedStatus},
		{"too large", big.URL, media.ErrTooLarge},
		{"empty", empty.URL, media.ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFetcher(32).Fetch(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
