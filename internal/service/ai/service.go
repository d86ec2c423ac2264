package ai

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Apology is returned to the customer when the model call fails.
const Apology = "I apologize, but I'm having trouble processing your request right now. Please try again later or contact our customer support team."

// Service turns generator failures into the apology answer.
type Service struct {
	gen Generator
	log logrus.FieldLogger
}

// NewService wraps gen.
func NewService(gen Generator, log logrus.FieldLogger) *Service {
	if gen == nil {
		gen = MockGenerator{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{gen: gen, log: log}
}

// Answer never fails: a model error is logged and answered with Apology.
func (s *Service) Answer(ctx context.Context, question, background string) string {
	answer, err := s.gen.Generate(ctx, question, background)
	if err != nil {
		s.log.WithError(err).Error("model call failed")
		return Apology
	}
	s.log.WithField("length", len(answer)).Debug("generated answer")
	return answer
}

// Configured reports whether a real model backs the answers.
func (s *Service) Configured() bool {
	return s.gen.Live()
}
