// Package avatar validates candidate avatar URLs before they are stored.
package avatar

import (
	"chat-gate/errors"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// maxAvatarBytes caps the declared avatar size at 2 MiB.
	maxAvatarBytes = 2 * 1024 * 1024
	// sniffBytes is how much body is fetched when the server does not
	// declare a content type and we fall back to content sniffing.
	sniffBytes = 3072
)

type Prober struct {
	client *http.Client
	log    *slog.Logger
}

func NewProber(log *slog.Logger, timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Validate checks that rawURL is a syntactically valid http(s) URL whose
// HEAD response declares an image content type and, when a content-length
// is present, at most 2 MiB. An absent content-length passes through; an
// absent content-type falls back to sniffing the first bytes.
func (p *Prober) Validate(ctx context.Context, rawURL string) error {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not a valid URL", errors.ErrInvalidAvatar, rawURL)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidAvatar, err)
	}
	response, err := p.client.Do(request)
	if err != nil {
		p.log.Warn("Avatar probe failed", "url", rawURL, "error", err)
		return fmt.Errorf("%w: probe failed", errors.ErrInvalidAvatar)
	}
	defer response.Body.Close()

	if declared := response.Header.Get("Content-Length"); declared != "" {
		size, err := strconv.ParseInt(declared, 10, 64)
		if err != nil || size > maxAvatarBytes {
			return fmt.Errorf("%w: declared size %s", errors.ErrInvalidAvatar, declared)
		}
	}

	contentType := response.Header.Get("Content-Type")
	if contentType == "" {
		return p.sniff(ctx, rawURL)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: content type %q", errors.ErrInvalidAvatar, contentType)
	}
	return nil
}

// sniff fetches the first bytes of the resource and detects the type from
// content, for servers that answer HEAD without a content-type header.
func (p *Prober) sniff(ctx context.Context, rawURL string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidAvatar, err)
	}
	request.Header.Set("Range", fmt.Sprintf("bytes=0-%d", sniffBytes-1))

	response, err := p.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: probe failed", errors.ErrInvalidAvatar)
	}
	defer response.Body.Close()

	head, err := io.ReadAll(io.LimitReader(response.Body, sniffBytes))
	if err != nil {
		return fmt.Errorf("%w: probe failed", errors.ErrInvalidAvatar)
	}
	detected := mimetype.Detect(head)
	if !strings.HasPrefix(detected.String(), "image/") {
		return fmt.Errorf("%w: detected type %q", errors.ErrInvalidAvatar, detected.String())
	}
	p.log.Debug("Avatar type resolved by sniffing", "url", rawURL, "type", detected.String())
	return nil
}
