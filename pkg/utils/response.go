package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/pkg/logger"
)

// encodeFailureBody replaces a payload that cannot be marshalled.
var encodeFailureBody = []byte(`{"error":"Internal server error: response encoding failed"}`)

type errorBody struct {
	Error string `json:"error"`
}

// RespondJSON marshals payload before writing anything, so a payload that
// cannot be encoded turns into a 500 error body instead of a truncated reply.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithFields(logrus.Fields{"status": status, "error": err}).Error("failed to encode response")
		status = http.StatusInternalServerError
		body = encodeFailureBody
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body[:len(body):len(body)], '\n')); err != nil {
		logger.WithField("error", err).Debug("failed to write response")
	}
}

// RespondError writes the {"error": message} shape every client parses.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorBody{Error: message})
}
