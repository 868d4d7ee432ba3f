package avatar

import (
	"chat-gate/errors"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a real PNG for content sniffing to identify it.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newProber(t *testing.T) *Prober {
	t.Helper()
	return NewProber(slog.Default(), 5*time.Second)
}

func fakeImageServer(t *testing.T, contentType string, contentLength string, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if contentLength != "" {
			w.Header().Set("Content-Length", contentLength)
		}
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_Prober_Accepts_Image(t *testing.T) {
	req := require.New(t)
	server := fakeImageServer(t, "image/png", "1024", pngHeader)

	req.NoError(newProber(t).Validate(context.Background(), server.URL+"/a.png"))
}

func Test_Prober_Rejects_Malformed_URL(t *testing.T) {
	req := require.New(t)
	prober := newProber(t)
	for _, raw := range []string{"", "not a url", "ftp://host/a.png", "http://"} {
		req.ErrorIs(prober.Validate(context.Background(), raw), errors.ErrInvalidAvatar)
	}
}

func Test_Prober_Rejects_Non_Image(t *testing.T) {
	req := require.New(t)
	server := fakeImageServer(t, "text/html", "", []byte("<html>"))

	err := newProber(t).Validate(context.Background(), server.URL)
	req.ErrorIs(err, errors.ErrInvalidAvatar)
}

func Test_Prober_Rejects_Oversized(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "3145728") // 3 MiB
	}))
	t.Cleanup(server.Close)

	err := newProber(t).Validate(context.Background(), server.URL)
	req.ErrorIs(err, errors.ErrInvalidAvatar)
}

func Test_Prober_Sniffs_When_Content_Type_Missing(t *testing.T) {
	req := require.New(t)
	// No declared content type on HEAD; the GET body identifies as PNG.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		if r.Method == http.MethodGet {
			_, _ = w.Write(pngHeader)
		}
	}))
	t.Cleanup(server.Close)

	req.NoError(newProber(t).Validate(context.Background(), server.URL+"/raw"))
}

func Test_Prober_Sniff_Rejects_Non_Image_Body(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("plain text, certainly not pixels"))
		}
	}))
	t.Cleanup(server.Close)

	err := newProber(t).Validate(context.Background(), server.URL)
	req.ErrorIs(err, errors.ErrInvalidAvatar)
}
