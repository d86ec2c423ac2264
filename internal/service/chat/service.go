package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/model/chat"
	"github.com/lee-electronics/assistant/internal/model/persona"
	"github.com/lee-electronics/assistant/internal/service/knowledge"
)

var ErrQuestionRequired = errors.New("Question is required.")

const (
	// ProbeQuestion is the connectivity sentinel sent by clients.
	ProbeQuestion = "test"

	// DefaultHistoryLimit is how many exchanges are kept without WithHistoryLimit.
	DefaultHistoryLimit = 200
)

// ProbeAnswer is returned for ProbeQuestion without consulting the model.
var ProbeAnswer = "Connection successful! " + persona.LeeElectronics().Name + " is ready to help you."

// Answerer produces the final answer text.
type Answerer interface {
	Answer(ctx context.Context, question, background string) string
	Configured() bool
}

// Stats summarises the audit log. Kept and LastAt describe the retained
// window, Answered and Probes count since start.
type Stats struct {
	Answered int
	Probes   int
	Kept     int
	LastAt   time.Time
}

// Service answers customer questions: probe short-circuit, retrieval, then
// generation. Every exchange lands in a bounded in-memory log.
type Service struct {
	retriever knowledge.Retriever
	answerer  Answerer
	log       logrus.FieldLogger
	now       func() time.Time

	mu      sync.RWMutex
	history []chat.Exchange
	limit   int
	stats   Stats
}

// Option customises a Service.
type Option func(*Service)

// WithHistoryLimit caps the number of exchanges kept.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires a retriever and an answerer.
func NewService(retriever knowledge.Retriever, answerer Answerer, opts ...Option) *Service {
	s := &Service{
		retriever: retriever,
		answerer:  answerer,
		log:       logrus.StandardLogger(),
		now:       time.Now,
		limit:     DefaultHistoryLimit,
		history:   make([]chat.Exchange, 0, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsProbe reports whether question is the connectivity sentinel.
func IsProbe(question string) bool {
	return strings.EqualFold(strings.TrimSpace(question), ProbeQuestion)
}

// Ask answers question. Only an empty question is an error.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", ErrQuestionRequired
	}

	if IsProbe(question) {
		s.record(question, ProbeAnswer, true)
		return ProbeAnswer, nil
	}

	background := s.retriever.Retrieve(ctx, question)
	answer := s.answerer.Answer(ctx, question, background)

	s.record(question, answer, false)
	s.log.WithFields(logrus.Fields{
		"question_len": len(question),
		"context_len":  len(background),
		"answer_len":   len(answer),
	}).Info("answered question")
	return answer, nil
}

// ModelConfigured reports whether a real model produces answers.
func (s *Service) ModelConfigured() bool {
	return s.answerer.Configured()
}

// Stats returns counters over every exchange since start.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.stats
	st.Kept = len(s.history)
	if st.Kept > 0 {
		st.LastAt = s.history[st.Kept-1].CreatedAt
	}
	return st
}

// Recent returns up to n of the newest exchanges, oldest first.
func (s *Service) Recent(n int) []chat.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	out := make([]chat.Exchange, n)
	copy(out, s.history[len(s.history)-n:])
	return out
}

func (s *Service) record(question, answer string, probe bool) {
	ex := chat.Exchange{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer,
		Probe:     probe,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if probe {
		s.stats.Probes++
	} else {
		s.stats.Answered++
	}

	if len(s.history) >= s.limit {
		s.history = append(s.history[:0], s.history[len(s.history)-s.limit+1:]...)
	}
	s.history = append(s.history, ex)
}
