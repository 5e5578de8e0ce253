package flyer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// decoders for backgrounds uploaded as webp
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the decoded size of a background, whatever its encoded size.
const MaxPixels = 40_000_000

var (
	ErrImageTooLarge  = errors.New("background image exceeds size limit")
	ErrHostNotAllowed = errors.New("background host is not allowed")
)

// HTTPLoader downloads backgrounds over HTTP(S) from an allow-list of hosts.
type HTTPLoader struct {
	client       *http.Client
	maxBytes     int64
	allowedHosts []string
}

// NewHTTPLoader only fetches from allowedHosts. An entry with a port matches
// host:port, one without matches the host name on any port.
func NewHTTPLoader(maxBytes int64, allowedHosts []string) *HTTPLoader {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	l := &HTTPLoader{maxBytes: maxBytes}

	for _, h := range allowedHosts {
		if h = strings.TrimSpace(h); h != "" {
			l.allowedHosts = append(l.allowedHosts, strings.ToLower(h))
		}
	}

	l.client = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return errors.New("too many redirects")
			}
			return l.check(req.URL)
		},
	}

	return l
}

func (l *HTTPLoader) check(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrHostNotAllowed
	}

	host, name := strings.ToLower(u.Host), strings.ToLower(u.Hostname())

	for _, allowed := range l.allowedHosts {
		if allowed == host || allowed == name {
			return nil
		}
	}

	return ErrHostNotAllowed
}

func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing background url: %w", err)
	}

	if err := l.check(u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building background request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrHostNotAllowed) {
			return nil, ErrHostNotAllowed
		}
		return nil, fmt.Errorf("fetching background: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching background: unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > l.maxBytes {
		return nil, ErrImageTooLarge
	}

	// one extra byte detects bodies longer than the limit
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading background: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrImageTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding background: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding background: %w", err)
	}

	return img, nil
}
