package intake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is the session's current-status slot.
type Snapshot struct {
	// SelectionID names the most recent selection, or "" before the first.
	SelectionID string

	// Status is the most recent terminal status. While Pending it still
	// holds the previous selection's outcome.
	Status Status

	// Pending is true while the most recent selection is unresolved.
	Pending bool
}

// Session holds one current-status slot and feeds it from selections.
//
// A new selection supersedes any in-flight one: the older run's context is
// cancelled, and should it still complete, its status is never written.
// Only the latest selection updates the slot.
type Session struct {
	pipeline *Pipeline
	log      *zap.Logger
	ctx      context.Context

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current Snapshot
}

// NewSession starts a session whose selections run under ctx.
// Cancelling ctx aborts every in-flight selection.
func NewSession(ctx context.Context, p *Pipeline) *Session {
	return &Session{
		pipeline: p,
		log:      p.log,
		ctx:      ctx,
		current:  Snapshot{Status: NotSelected{}},
	}
}

// Current returns the slot's contents.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select starts classifying h and returns a ticket that resolves once.
// A nil h resolves immediately to NotSelected.
func (s *Session) Select(h FileHandle) *Ticket {
	id := uuid.NewString()
	log := s.log.With(zap.String("selection_id", id))

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	t := newTicket(id)

	if h == nil {
		st := s.pipeline.run(s.ctx, nil, log)
		s.current = Snapshot{SelectionID: id, Status: st}
		s.mu.Unlock()
		t.resolve(st, false)
		return t
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.current.SelectionID = id
	s.current.Pending = true
	s.mu.Unlock()

	log.Debug("selection started")
	go func() {
		defer cancel()
		st := s.pipeline.run(ctx, h, log)

		s.mu.Lock()
		latest := s.gen == gen
		if latest {
			s.current = Snapshot{SelectionID: id, Status: st}
			s.cancel = nil
		}
		s.mu.Unlock()

		if !latest {
			log.Debug("selection superseded", zap.Stringer("status", st.Kind()))
		}
		t.resolve(st, !latest)
	}()
	return t
}

// Close cancels any in-flight selection.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Ticket is the one-shot result of a Select call.
type Ticket struct {
	id   string
	done chan struct{}

	status     Status
	superseded bool
}

func newTicket(id string) *Ticket {
	return &Ticket{id: id, done: make(chan struct{})}
}

func (t *Ticket) resolve(st Status, superseded bool) {
	t.status = st
	t.superseded = superseded
	close(t.done)
}

// ID returns the selection id.
func (t *Ticket) ID() string { return t.id }

// Done is closed once the selection resolves.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait blocks until the selection resolves or ctx ends. A resolved ticket
// returns its status even if ctx is already done.
func (t *Ticket) Wait(ctx context.Context) (Status, error) {
	select {
	case <-t.done:
		return t.status, nil
	default:
	}

	select {
	case <-t.done:
		return t.status, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Superseded reports whether a later selection replaced this one before it
// resolved. Its status was then never written to the session. Only
// meaningful after Done is closed.
func (t *Ticket) Superseded() bool {
	select {
	case <-t.done:
		return t.superseded
	default:
		return false
	}
}
