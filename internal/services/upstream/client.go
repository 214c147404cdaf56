package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/punyarb62/dsde-cctv/internal/logger"
)

// Client talks to the legacy traffic-camera portal. A single shared
// http.Client with a cookie jar is used for every request; the cookies
// established by the warm-up handshake are what make the per-frame image
// requests validate afterwards.
type Client struct {
	base      string
	userAgent string
	httpc     *http.Client
	logger    *logger.Logger
}

// New creates a Client for the given portal base URL. Every request carries
// the configured user agent and is bounded by the fixed timeout.
func New(base, userAgent string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		httpc: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		logger: log,
	}, nil
}

// Base returns the portal base URL.
func (c *Client) Base() string {
	return c.base
}

// PlayURL computes the per-camera play URL without touching the network.
func (c *Client) PlayURL(playID string) string {
	return fmt.Sprintf("%s/PlayVideo.aspx?ID=%s", c.base, url.QueryEscape(playID))
}

// Warmup replays the human navigation sequence the portal expects before it
// will serve frames: a landing-page visit to pick up session cookies, then
// the per-camera play request. A non-success status on the play request is
// a hard failure. Returns the play URL on success.
func (c *Client) Warmup(ctx context.Context, playID string) (string, error) {
	if err := c.visit(ctx, c.base+"/index.aspx"); err != nil {
		return "", fmt.Errorf("landing page visit: %w", err)
	}

	playURL := c.PlayURL(playID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build play request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("play request for camera %s: %w", playID, err)
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("play request for camera %s: unexpected status %d", playID, resp.StatusCode)
	}

	return playURL, nil
}

// FetchFrame requests a single frame for imageID. The Referer must be the
// play URL of the owning session or the portal serves nothing useful, and
// the epoch-millisecond time parameter busts any intermediary cache.
// Failures here are soft: the caller decides whether to re-warm and retry.
func (c *Client) FetchFrame(ctx context.Context, playURL, imageID string) ([]byte, string, error) {
	frameURL := fmt.Sprintf("%s/show.aspx?image=%s&time=%d",
		c.base, url.QueryEscape(imageID), time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, frameURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build frame request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", playURL)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("frame request for image %s: %w", imageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("frame request for image %s: unexpected status %d", imageID, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, "", fmt.Errorf("frame request for image %s: unexpected content type %q", imageID, contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read frame body for image %s: %w", imageID, err)
	}

	return body, contentType, nil
}

// visit issues a GET purely for its cookie side effects. The status code is
// not checked; transport errors still fail.
func (c *Client) visit(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	drain(resp.Body)
	return nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	body.Close()
}
