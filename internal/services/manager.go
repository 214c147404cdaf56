package services

import (
	"context"
	"fmt"
	"time"

	"github.com/punyarb62/dsde-cctv/internal/logger"
	"github.com/punyarb62/dsde-cctv/internal/services/detector"
	"github.com/punyarb62/dsde-cctv/internal/services/session"
	"github.com/punyarb62/dsde-cctv/internal/services/upstream"
	"github.com/punyarb62/dsde-cctv/internal/services/websocket"
)

// warmDebounce absorbs back-to-back warm-up triggers for the same camera:
// inside the gate, a handshake that finished this recently is not repeated.
const warmDebounce = 2 * time.Second

// sweepInterval is how often idle camera sessions are reaped.
const sweepInterval = time.Minute

// Frame is one retrieved snapshot: raw image payload plus the content type
// the portal declared for it. Frames are never cached or persisted.
type Frame struct {
	Bytes       []byte
	ContentType string
}

// FetchError is the terminal snapshot failure: the frame could not be
// retrieved even after the forced re-warm retry. It carries both ids so the
// failing camera/frame pair can be diagnosed.
type FetchError struct {
	PlayID  string
	ImageID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch snapshot (play_id=%s, image_id=%s)", e.PlayID, e.ImageID)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Manager composes the session store, the upstream client and the
// placeholder detector into the snapshot retrieval flow: assume the cached
// session is valid, verify the result, and pay for a re-warm only when
// verification fails. Recovery is bounded to exactly one retry.
type Manager struct {
	sessions *session.Store
	upstream *upstream.Client
	detector detector.Detector
	hub      *websocket.HubService // optional
	logger   *logger.Logger
}

func NewManager(sessions *session.Store, client *upstream.Client, det detector.Detector, hub *websocket.HubService, log *logger.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		upstream: client,
		detector: det,
		hub:      hub,
		logger:   log,
	}
}

// Run sweeps idle camera sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := m.sessions.Sweep(now); evicted > 0 {
				m.logger.Info("swept %d idle camera session(s), %d tracked", evicted, m.sessions.Len())
			}
		}
	}
}

// Warmup establishes or refreshes the upstream session for playID and
// returns the play URL. Concurrent callers for the same camera serialize on
// the per-camera gate; whoever enters the gate after a handshake that
// finished within the debounce window skips the network entirely. A failed
// handshake leaves the recorded warm time untouched.
func (m *Manager) Warmup(ctx context.Context, playID string) (string, error) {
	gate := m.sessions.Gate(playID)
	gate.Lock()
	defer gate.Unlock()

	if time.Since(m.sessions.LastWarm(playID)) < warmDebounce {
		return m.upstream.PlayURL(playID), nil
	}

	playURL, err := m.upstream.Warmup(ctx, playID)
	if err != nil {
		return "", err
	}

	m.sessions.MarkWarmed(playID, time.Now())
	m.logger.Info("session warmed for camera %s", playID)
	return playURL, nil
}

// ensureFresh warms the session for playID only when it has aged past the
// freshness window. Refresh is demand driven: a camera with no traffic
// never costs an upstream call.
func (m *Manager) ensureFresh(ctx context.Context, playID string) error {
	if m.sessions.IsFresh(playID) {
		return nil
	}
	_, err := m.Warmup(ctx, playID)
	return err
}

// GetSnapshot retrieves one frame for the (playID, imageID) pair. On a
// failed or placeholder fetch the session is re-warmed once, bypassing the
// freshness check, and the fetch retried; a second bad result is terminal.
func (m *Manager) GetSnapshot(ctx context.Context, playID, imageID string) (*Frame, error) {
	if err := m.ensureFresh(ctx, playID); err != nil {
		m.notify(playID, "error", err.Error())
		return nil, &FetchError{PlayID: playID, ImageID: imageID, Err: err}
	}

	playURL := m.upstream.PlayURL(playID)
	frame, contentType, err := m.upstream.FetchFrame(ctx, playURL, imageID)

	recovered := false
	if err != nil || m.detector.IsPlaceholder(frame) {
		if err != nil {
			m.logger.Warning("frame fetch for camera %s failed, rewarming: %v", playID, err)
		} else {
			m.logger.Warning("placeholder frame from camera %s, session expired server-side, rewarming", playID)
		}

		playURL, err = m.Warmup(ctx, playID)
		if err != nil {
			m.notify(playID, "error", err.Error())
			return nil, &FetchError{PlayID: playID, ImageID: imageID, Err: err}
		}

		frame, contentType, err = m.upstream.FetchFrame(ctx, playURL, imageID)
		if err != nil || m.detector.IsPlaceholder(frame) {
			m.notify(playID, "error", "frame unavailable after rewarm")
			return nil, &FetchError{PlayID: playID, ImageID: imageID, Err: err}
		}
		recovered = true
	}

	if recovered {
		m.notify(playID, "recovered", "")
	} else {
		m.notify(playID, "ok", "")
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Frame{Bytes: frame, ContentType: contentType}, nil
}

func (m *Manager) notify(camera, status, detail string) {
	if m.hub == nil {
		return
	}
	m.hub.BroadcastEvent(websocket.StatusEvent{
		Camera:    camera,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}
