// Package conversation holds the chat page's state and the rules that move it.
//
// All state changes go through Reduce, which takes a State value and an
// Action and returns the next State plus the side effects the caller must run
// (network calls). Session wires those effects to a backend client.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lee-electronics/assistant/internal/model/chat"
	"github.com/lee-electronics/assistant/internal/model/persona"
)

const (
	WelcomeID = "welcome"

	// EchoProbeMessage is what the echo diagnostic sends to the backend.
	EchoProbeMessage = "Connection test"

	probeFailedText = "Backend connection failed. Make sure the backend server is running on port 8000."
)

// WelcomeMessage opens every conversation.
var WelcomeMessage = persona.LeeElectronics().Greeting

// Suggestions are the quick prompts offered under the input box.
var Suggestions = []string{
	"What products do you offer?",
	"What's your return policy?",
	"How can I contact support?",
	"Tell me about warranties",
}

// State is the whole chat view. Treat it as a value: Reduce never mutates
// the slices of a State it was given.
type State struct {
	Messages    []chat.Message
	Connection  chat.ConnectionState
	Busy        bool
	Draft       string
	Error       string
	Diagnostics *chat.BackendDiagnostics
}

// CanRetry reports whether the manual retry action is offered.
func (s State) CanRetry() bool {
	return s.Connection == chat.Disconnected
}

// Action is an input to Reduce.
type Action interface {
	action()
}

type (
	// Mount is dispatched once when the view starts.
	Mount struct{}
	// Edit replaces the input draft.
	Edit struct{ Text string }
	// Submit sends Text as a question.
	Submit struct{ Text string }
	// ResponseOK carries the backend's answer.
	ResponseOK struct{ Answer string }
	// ResponseErr carries the message of a failed send.
	ResponseErr struct{ Message string }
	// ProbeResult carries the outcome of a connection check.
	ProbeResult struct{ OK bool }
	// DiagnosticsOK carries advisory backend info.
	DiagnosticsOK struct{ Info *chat.BackendDiagnostics }
	// ManualRetry re-runs the connection check.
	ManualRetry struct{}
	// EchoRequested starts the echo diagnostic.
	EchoRequested struct{}
	// EchoOK carries the echo reply.
	EchoOK struct{ Response string }
	// EchoErr carries the echo failure.
	EchoErr struct{ Message string }
)

func (Mount) action()         {}
func (Edit) action()          {}
func (Submit) action()        {}
func (ResponseOK) action()    {}
func (ResponseErr) action()   {}
func (ProbeResult) action()   {}
func (DiagnosticsOK) action() {}
func (ManualRetry) action()   {}
func (EchoRequested) action() {}
func (EchoOK) action()        {}
func (EchoErr) action()       {}

// Effect is work Reduce asks the caller to perform.
type Effect interface {
	effect()
}

type (
	// Probe runs the connection check.
	Probe struct{}
	// Send posts Question to the chat endpoint.
	Send struct{ Question string }
	// FetchDiagnostics reads the advisory backend status.
	FetchDiagnostics struct{}
	// Echo round-trips Message through the diagnostic endpoint.
	Echo struct{ Message string }
)

func (Probe) effect()            {}
func (Send) effect()             {}
func (FetchDiagnostics) effect() {}
func (Echo) effect()             {}

// Reducer carries the clock and id source used for new messages.
type Reducer struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultReducer stamps messages with wall-clock time and random UUIDs.
func DefaultReducer() Reducer {
	return Reducer{Now: time.Now, NewID: uuid.NewString}
}

// Initial returns the state before any network activity: the greeting and
// a checking indicator.
func (r Reducer) Initial() State {
	return State{
		Messages: []chat.Message{{
			ID:         WelcomeID,
			Content:    WelcomeMessage,
			Originator: chat.Assistant,
			CreatedAt:  r.Now(),
		}},
		Connection: chat.Checking,
	}
}

// Reduce applies a to s.
func (r Reducer) Reduce(s State, a Action) (State, []Effect) {
	switch a := a.(type) {
	case Mount:
		return s, []Effect{Probe{}}

	case Edit:
		s.Draft = a.Text
		return s, nil

	case Submit:
		text := strings.TrimSpace(a.Text)
		if text == "" || s.Busy {
			return s, nil
		}
		s.Messages = r.appendMessage(s.Messages, chat.User, text)
		s.Draft = ""
		s.Busy = true
		return s, []Effect{Send{Question: text}}

	case ResponseOK:
		s.Messages = r.appendMessage(s.Messages, chat.Assistant, a.Answer)
		s.Connection = chat.Connected
		s.Error = ""
		s.Busy = false
		return s, nil

	case ResponseErr:
		s.Messages = r.appendMessage(s.Messages, chat.Assistant,
			fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", a.Message))
		s.Connection = chat.Disconnected
		s.Error = a.Message
		s.Busy = false
		return s, nil

	case ProbeResult:
		if !a.OK {
			s.Connection = chat.Disconnected
			s.Error = probeFailedText
			return s, nil
		}
		s.Connection = chat.Connected
		s.Error = ""
		return s, []Effect{FetchDiagnostics{}}

	case DiagnosticsOK:
		if a.Info != nil {
			info := *a.Info
			s.Diagnostics = &info
		}
		return s, nil

	case ManualRetry:
		if !s.CanRetry() {
			return s, nil
		}
		s.Error = ""
		return s, []Effect{Probe{}}

	case EchoRequested:
		return s, []Effect{Echo{Message: EchoProbeMessage}}

	case EchoOK:
		s.Messages = r.appendMessage(s.Messages, chat.Assistant, "🔧 Backend Test: "+a.Response)
		s.Connection = chat.Connected
		return s, nil

	case EchoErr:
		s.Messages = r.appendMessage(s.Messages, chat.Assistant, "❌ Backend Test Failed: "+a.Message)
		s.Connection = chat.Disconnected
		return s, nil
	}

	return s, nil
}

// appendMessage copies log before appending so older states keep their own
// backing array.
func (r Reducer) appendMessage(log []chat.Message, who chat.Originator, content string) []chat.Message {
	next := make([]chat.Message, len(log), len(log)+1)
	copy(next, log)
	return append(next, chat.Message{
		ID:         r.NewID(),
		Content:    content,
		Originator: who,
		CreatedAt:  r.Now(),
	})
}
