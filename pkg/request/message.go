package request

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/verifier/pkg/logging"
)

// Message represents a message response.
type Message struct {
	Message string `json:"Message" xml:"Message"`
}

// NewMessage creates a new Message.
func NewMessage(message string, args ...any) *Message {
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	} else {
		msg = message
	}
	return &Message{
		Message: msg,
	}
}

// writeMessage encodes the message as the JSON response body.
func writeMessage(l *slog.Logger, w http.ResponseWriter, status int, msg *Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}
