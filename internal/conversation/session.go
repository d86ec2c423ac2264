package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/model/chat"
)

// API is the slice of the backend client the chat view needs.
type API interface {
	SendMessage(ctx context.Context, question string) (string, error)
	TestConnection(ctx context.Context) bool
	GetBackendStatus(ctx context.Context) *chat.BackendDiagnostics
	TestEcho(ctx context.Context, message string) (string, error)
}

// Session owns one chat view's state and runs the effects Reduce asks for.
//
// The Busy flag is the only concurrency guard: a Submit while a send is
// outstanding is dropped. Connection checks run alongside sends and whichever
// result lands last decides the indicator.
type Session struct {
	api     API
	reducer Reducer
	log     logrus.FieldLogger

	mu     sync.Mutex
	state  State
	subs   []chan State
	closed bool

	inflight sync.WaitGroup
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithReducer replaces the clock and id source.
func WithReducer(r Reducer) SessionOption {
	return func(s *Session) {
		s.reducer = r
	}
}

// WithSessionLogger routes effect failures to l.
func WithSessionLogger(l logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession builds a session in its initial state. Nothing touches the
// network until Start.
func NewSession(api API, opts ...SessionOption) *Session {
	s := &Session{
		api:     api,
		reducer: DefaultReducer(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.reducer.Initial()
	return s
}

// Start runs the initial connection check.
func (s *Session) Start(ctx context.Context) {
	s.dispatch(ctx, Mount{})
}

// Edit updates the input draft.
func (s *Session) Edit(text string) {
	s.dispatch(context.Background(), Edit{Text: text})
}

// Submit sends text as a question. It reports whether a request was issued;
// blank input and submissions while busy are ignored.
func (s *Session) Submit(ctx context.Context, text string) bool {
	for _, e := range s.dispatch(ctx, Submit{Text: text}) {
		if _, ok := e.(Send); ok {
			return true
		}
	}
	return false
}

// Retry re-runs the connection check while disconnected.
func (s *Session) Retry(ctx context.Context) {
	s.dispatch(ctx, ManualRetry{})
}

// Echo runs the echo diagnostic.
func (s *Session) Echo(ctx context.Context) {
	s.dispatch(ctx, EchoRequested{})
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the newest state after every
// change. Slow readers only see the latest value.
func (s *Session) Subscribe() <-chan State {
	ch := make(chan State, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Wait blocks until every outstanding effect has finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Close stops notifications. Results of requests still in flight are
// discarded when they arrive.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *Session) dispatch(ctx context.Context, a Action) []Effect {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	next, effects := s.reducer.Reduce(s.state, a)
	s.state = next
	s.publish(next)
	s.inflight.Add(len(effects))
	s.mu.Unlock()

	// Requests outlive the caller: there is no way to abort them once issued.
	runCtx := context.WithoutCancel(ctx)
	for _, e := range effects {
		go s.run(runCtx, e)
	}
	return effects
}

// publish must be called with mu held.
func (s *Session) publish(st State) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (s *Session) run(ctx context.Context, e Effect) {
	defer s.inflight.Done()

	switch e := e.(type) {
	case Probe:
		s.dispatch(ctx, ProbeResult{OK: s.api.TestConnection(ctx)})

	case FetchDiagnostics:
		if info := s.api.GetBackendStatus(ctx); info != nil {
			s.dispatch(ctx, DiagnosticsOK{Info: info})
		}

	case Send:
		s.send(ctx, e.Question)

	case Echo:
		reply, err := s.api.TestEcho(ctx, e.Message)
		if err != nil {
			s.dispatch(ctx, EchoErr{Message: err.Error()})
			return
		}
		s.dispatch(ctx, EchoOK{Response: reply})
	}
}

// send always resolves the request with ResponseOK or ResponseErr so Busy is
// cleared even if the client panics.
func (s *Session) send(ctx context.Context, question string) {
	var (
		answer string
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("Unknown error")
			s.log.WithField("panic", r).Error("send message panicked")
		}
		if err != nil {
			s.log.WithError(err).Warn("send message failed")
			s.dispatch(ctx, ResponseErr{Message: err.Error()})
			return
		}
		s.dispatch(ctx, ResponseOK{Answer: answer})
	}()

	answer, err = s.api.SendMessage(ctx, question)
}
