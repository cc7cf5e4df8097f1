package tasks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/services"
)

const (
	DefaultPollInterval = time.Second
	DefaultPollTimeout  = 3 * time.Second
)

// Ticket authorizes one playback poll. Seq grows with every started poll.
type Ticket struct {
	Seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Result is the outcome of a [Syncer.Fetch].
type Result struct {
	Seq      uint64
	Snapshot *models.PlaybackSnapshot
	Err      error
}

// Syncer polls remote playback state.
//
// At most one poll is in flight. A result is applied only if it succeeded and is newer than
// the last applied one, so a slow response can never overwrite a fresher display.
type Syncer struct {
	player  services.Player
	timeout time.Duration
	logger  *log.Logger

	mu       sync.Mutex
	next     uint64
	applied  uint64
	inflight uint64
	cancel   context.CancelFunc
}

// NewSyncer creates a [Syncer]. A non-positive timeout uses [DefaultPollTimeout]; a nil logger discards.
func NewSyncer(player services.Player, timeout time.Duration, logger *log.Logger) *Syncer {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Syncer{player: player, timeout: timeout, logger: logger}
}

// Start reserves the next poll.
//
// While a poll is in flight a regular start is skipped. A forced start cancels the in-flight poll and replaces it.
func (s *Syncer) Start(ctx context.Context, force bool) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != 0 {
		if !force {
			return Ticket{}, false
		}
		s.logger.Debug("cancelling in-flight poll", "seq", s.inflight)
		s.cancel()
	}

	s.next++
	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	s.inflight = s.next
	s.cancel = cancel

	return Ticket{Seq: s.next, ctx: pctx, cancel: cancel}, true
}

// Fetch performs the remote read for t. It is safe to call from any goroutine.
func (s *Syncer) Fetch(t Ticket) Result {
	if t.ctx == nil {
		return Result{Seq: t.Seq, Err: context.Canceled}
	}
	defer t.cancel()

	snap, err := s.player.CurrentPlayback(t.ctx)
	return Result{Seq: t.Seq, Snapshot: snap, Err: err}
}

// Accept reports whether r should replace the displayed playback state.
//
// Failed and out-of-order results are dropped and only logged at debug level.
func (s *Syncer) Accept(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Seq == s.inflight {
		s.inflight = 0
		s.cancel = nil
	}

	switch {
	case r.Err != nil:
		s.logger.Debug("playback poll failed", "seq", r.Seq, "err", r.Err)
		return false
	case r.Snapshot == nil:
		s.logger.Debug("playback poll returned no snapshot", "seq", r.Seq)
		return false
	case r.Seq <= s.applied:
		s.logger.Debug("dropping stale playback poll", "seq", r.Seq, "applied", s.applied)
		return false
	}

	s.applied = r.Seq
	return true
}

// Applied returns the sequence number of the last accepted result.
func (s *Syncer) Applied() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Run polls immediately and then every interval until ctx is done.
//
// apply is only ever called from the goroutine running Run.
func (s *Syncer) Run(ctx context.Context, interval time.Duration, apply func(*models.PlaybackSnapshot)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	results := make(chan Result)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() {
		t, ok := s.Start(ctx, false)
		if !ok {
			return
		}
		go func() {
			r := s.Fetch(t)
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}()
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		case r := <-results:
			if s.Accept(r) {
				apply(r.Snapshot)
			}
		}
	}
}
