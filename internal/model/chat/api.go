package chat

import "time"

// ChatRequest is the body accepted by POST /api/chat/ and POST /api/test/.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the success body of POST /api/chat/.
// Answer is a pointer so a missing field can be told apart from an empty answer.
type ChatResponse struct {
	Answer *string `json:"answer"`
}

// ErrorResponse is the best-effort shape of any non-2xx body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BackendDiagnostics is the advisory body of GET /api/test/.
type BackendDiagnostics struct {
	Message         string  `json:"message"`
	ServerTimestamp float64 `json:"timestamp"`
	AIConfigured    bool    `json:"gemini_configured"`
}

// EchoResponse is the body of POST /api/test/.
type EchoResponse struct {
	ReceivedQuestion string `json:"received_question"`
	Response         string `json:"response"`
	BackendStatus    string `json:"backend_status,omitempty"`
}

// HealthResponse is the body of GET /api/chat/. LastExchangeAt is unset
// until the first question arrives.
type HealthResponse struct {
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	Endpoints      map[string]string `json:"endpoints,omitempty"`
	Answered       int               `json:"answered"`
	Probes         int               `json:"probes"`
	LastExchangeAt *time.Time        `json:"last_exchange_at,omitempty"`
	Recent         []ExchangeSummary `json:"recent,omitempty"`
}

// ExchangeSummary describes a logged exchange without its text.
type ExchangeSummary struct {
	ID        string    `json:"id"`
	Probe     bool      `json:"probe"`
	CreatedAt time.Time `json:"created_at"`
}
