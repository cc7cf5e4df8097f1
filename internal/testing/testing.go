// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spotui/internal/models"
	"golang.org/x/oauth2"
)

// MockService is a test double for [services.Service] that records every call.
//
// Snapshots are served in order; the last one repeats once the queue is drained.
type MockService struct {
	mu sync.Mutex

	Snapshots   []*models.PlaybackSnapshot
	PlaylistSet []models.Playlist
	TrackSets   map[string][]models.Track
	DeviceSet   []models.Device

	// PlaybackErr fails CurrentPlayback; CommandErr fails every transport command; LibraryErr fails Playlists/PlaylistTracks/Devices.
	PlaybackErr error
	CommandErr  error
	LibraryErr  error

	// Delay blocks CurrentPlayback until it elapses or the context is done.
	Delay time.Duration

	calls []string
	reads int
}

func (m *MockService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns a copy of the recorded call log.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Count returns how many times call was recorded.
func (m *MockService) Count(call string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

// Commands returns the recorded calls that change playback.
func (m *MockService) Commands() []string {
	var out []string
	for _, c := range m.Calls() {
		if c != "CurrentPlayback" && c != "Playlists" && c != "PlaylistTracks" && c != "Devices" {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockService) CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error) {
	m.record("CurrentPlayback")

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PlaybackErr != nil {
		return nil, m.PlaybackErr
	}
	if len(m.Snapshots) == 0 {
		return &models.PlaybackSnapshot{}, nil
	}

	snap := m.Snapshots[min(m.reads, len(m.Snapshots)-1)]
	m.reads++
	return snap, nil
}

func (m *MockService) Play(ctx context.Context) error {
	m.record("Play")
	return m.CommandErr
}

func (m *MockService) PlayTrack(ctx context.Context, uri string) error {
	m.record("PlayTrack:" + uri)
	return m.CommandErr
}

func (m *MockService) Pause(ctx context.Context) error {
	m.record("Pause")
	return m.CommandErr
}

func (m *MockService) Next(ctx context.Context) error {
	m.record("Next")
	return m.CommandErr
}

func (m *MockService) Previous(ctx context.Context) error {
	m.record("Previous")
	return m.CommandErr
}

func (m *MockService) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	m.record("Playlists")
	if m.LibraryErr != nil {
		return nil, m.LibraryErr
	}
	return m.PlaylistSet, nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	m.record("PlaylistTracks")
	if m.LibraryErr != nil {
		return nil, m.LibraryErr
	}
	return m.TrackSets[playlistID], nil
}

func (m *MockService) Devices(ctx context.Context) ([]models.Device, error) {
	m.record("Devices")
	if m.LibraryErr != nil {
		return nil, m.LibraryErr
	}
	return m.DeviceSet, nil
}

func (m *MockService) Name() string { return "mock" }

// MockOAuthService adds the OAuth surface to [MockService].
type MockOAuthService struct {
	MockService

	Token       *oauth2.Token
	OnRefresh   func(*oauth2.Token)
	OAuthConfig *oauth2.Config
}

func (m *MockOAuthService) GetAuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockOAuthService) GetOAuthConfig() *oauth2.Config {
	if m.OAuthConfig != nil {
		return m.OAuthConfig
	}
	return &oauth2.Config{}
}

func (m *MockOAuthService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	m.Token = token
	return nil
}

func (m *MockOAuthService) SetTokenRefreshCallback(fn func(*oauth2.Token)) { m.OnRefresh = fn }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
