package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure SessionController implements the interface.
var _ driving.SearchSession = (*SessionController)(nil)

// closed is returned by Submit when nothing was started.
var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// SessionController owns one user's search session.
//
// Each submit bumps a generation counter; a completion is applied only if
// its generation is still current, so the last submitted query wins even
// when an older request finishes later. All state is guarded by mu so
// completions may arrive on any goroutine.
type SessionController struct {
	id        string
	transport driven.SearchTransport
	recent    driving.RecentSearchService
	cache     *ResponseCache
	now       func() time.Time

	mu         sync.Mutex
	state      domain.SessionState
	queryText  string
	committed  string
	response   *domain.SearchResponse
	respQuery  string
	err        error
	elapsed    time.Duration
	hasElapsed bool
	selected   int
	recentList []domain.RecentSearch

	generation uint64
	cancel     context.CancelFunc
	inflight   sync.WaitGroup
}

// SessionOption configures a SessionController.
type SessionOption func(*SessionController)

// WithClock sets the clock used to measure elapsed time.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionController) {
		s.now = now
	}
}

// WithSessionID sets the session ID instead of a random one.
func WithSessionID(id string) SessionOption {
	return func(s *SessionController) {
		s.id = id
	}
}

// NewSessionController creates a session controller.
// A nil cache gets a private cache with DefaultCacheTTL.
func NewSessionController(
	transport driven.SearchTransport,
	recent driving.RecentSearchService,
	cache *ResponseCache,
	opts ...SessionOption,
) *SessionController {
	if cache == nil {
		cache = NewResponseCache(DefaultCacheTTL)
	}
	s := &SessionController{
		id:         uuid.NewString(),
		transport:  transport,
		recent:     recent,
		cache:      cache,
		now:        time.Now,
		state:      domain.SessionIdle,
		selected:   domain.NoSelection,
		recentList: []domain.RecentSearch{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID.
func (s *SessionController) ID() string {
	return s.id
}

// SetQueryText updates the uncommitted input buffer.
func (s *SessionController) SetQueryText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryText = text
}

// QueryText returns the uncommitted input buffer.
func (s *SessionController) QueryText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryText
}

// Submit commits the trimmed buffer and starts the transport call on a new
// goroutine. Any request still in flight is superseded and its context
// cancelled.
func (s *SessionController) Submit(ctx context.Context) (<-chan struct{}, bool) {
	s.mu.Lock()
	query := strings.TrimSpace(s.queryText)
	if query == "" {
		s.mu.Unlock()
		return closed, false
	}

	gen := s.supersedeLocked()
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.selected = domain.NoSelection
	s.committed = query
	s.cache.Invalidate(query)
	s.state = domain.SessionLoading
	s.err = nil
	s.inflight.Add(1)
	s.mu.Unlock()

	logger.Debug("session %s: submit %q (generation %d)", s.id, query, gen)

	done := make(chan struct{})
	go func() {
		defer s.inflight.Done()
		defer close(done)
		defer cancel()

		start := s.now()
		resp, err := s.transport.Search(reqCtx, query)
		elapsed := s.now().Sub(start)

		s.complete(context.WithoutCancel(ctx), gen, query, resp, err, elapsed)
	}()
	return done, true
}

// supersedeLocked starts a new generation and cancels the request of the
// previous one. s.mu must be held.
func (s *SessionController) supersedeLocked() uint64 {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.generation
}

func (s *SessionController) complete(
	ctx context.Context,
	gen uint64,
	query string,
	resp *domain.SearchResponse,
	err error,
	elapsed time.Duration,
) {
	if err == nil && resp == nil {
		err = &domain.DecodeError{}
	}

	s.mu.Lock()
	if gen != s.generation || query != s.committed {
		s.mu.Unlock()
		logger.Debug("session %s: discarding superseded result for %q (generation %d)", s.id, query, gen)
		return
	}
	s.cancel = nil

	if err != nil {
		s.state = domain.SessionFailed
		s.err = err
		s.response = nil
		s.respQuery = ""
		s.elapsed = 0
		s.hasElapsed = false
		s.selected = domain.NoSelection
		s.mu.Unlock()
		logger.Warn("session %s: search %q failed after %s: %v", s.id, query, elapsed, err)
		return
	}

	resp.Normalise()
	s.state = domain.SessionSuccess
	s.response = resp
	s.respQuery = query
	s.elapsed = elapsed
	s.hasElapsed = true
	s.cache.Put(query, resp)
	s.mu.Unlock()

	logger.Debug("session %s: %q returned %d results (%d service errors) in %s",
		s.id, query, resp.TotalResults, len(resp.Errors), elapsed)
	if !resp.Success {
		logger.Warn("session %s: webhook reported success=false for %q", s.id, query)
	}
	if n := domain.DroppedCount(resp.Results); n > 0 {
		logger.Warn("session %s: %d results with unknown sources are not grouped", s.id, n)
	}

	s.recent.Save(ctx, query, resp.TotalResults)
	s.ReloadRecent(ctx)
}

// SelectRecent sets the buffer and committed query and resets the
// selection without submitting. A fresh cached response for query becomes
// the current response.
func (s *SessionController) SelectRecent(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queryText = query
	s.committed = query
	s.selected = domain.NoSelection

	if s.state == domain.SessionLoading {
		s.supersedeLocked()
		s.state = s.settledStateLocked()
	}

	if resp, ok := s.cache.Get(query); ok {
		s.response = resp
		s.respQuery = query
		s.err = nil
		s.hasElapsed = false
		s.elapsed = 0
		s.state = domain.SessionSuccess
		logger.Debug("session %s: %q served from cache", s.id, query)
	}
}

func (s *SessionController) settledStateLocked() domain.SessionState {
	switch {
	case s.response != nil:
		return domain.SessionSuccess
	case s.err != nil:
		return domain.SessionFailed
	default:
		return domain.SessionIdle
	}
}

// MoveSelection moves the selection by delta within [-1, len(flat)-1].
func (s *SessionController) MoveSelection(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = domain.ClampSelection(s.selected+delta, s.flatLenLocked())
	return s.selected
}

// SelectNone clears the selection.
func (s *SessionController) SelectNone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = domain.NoSelection
}

// SelectedIndex returns the selection.
func (s *SessionController) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ClampSelection(s.selected, s.flatLenLocked())
}

func (s *SessionController) flatLenLocked() int {
	if s.response == nil {
		return 0
	}
	return len(s.response.Results)
}

// FlatResults returns the current results in response order.
func (s *SessionController) FlatResults() []domain.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.response == nil {
		return []domain.SearchResult{}
	}
	return append([]domain.SearchResult(nil), s.response.Results...)
}

// Snapshot returns a copy of the session state.
// The response is shared; responses are never mutated once applied.
func (s *SessionController) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{
		ID:             s.id,
		State:          s.state,
		QueryText:      s.queryText,
		CommittedQuery: s.committed,
		Response:       s.response,
		ResponseQuery:  s.respQuery,
		Err:            s.err,
		Elapsed:        s.elapsed,
		HasElapsed:     s.hasElapsed,
		SelectedIndex:  domain.ClampSelection(s.selected, s.flatLenLocked()),
		Recent:         append([]domain.RecentSearch(nil), s.recentList...),
	}
}

// RecentSearches returns the in-memory recent list.
func (s *SessionController) RecentSearches() []domain.RecentSearch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RecentSearch{}, s.recentList...)
}

// ReloadRecent refreshes the in-memory recent list from the store.
func (s *SessionController) ReloadRecent(ctx context.Context) {
	list := s.recent.List(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentList = list
}

// ClearRecent clears persisted and in-memory recent searches.
func (s *SessionController) ClearRecent(ctx context.Context) {
	s.recent.Clear(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentList = []domain.RecentSearch{}
}

// Close cancels any in-flight request and waits for it to settle.
func (s *SessionController) Close() {
	s.mu.Lock()
	s.supersedeLocked()
	if s.state == domain.SessionLoading {
		s.state = s.settledStateLocked()
	}
	s.mu.Unlock()
	s.inflight.Wait()
}
