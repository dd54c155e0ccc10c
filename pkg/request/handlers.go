package request

import (
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/verifier/pkg/logging"
)

// AliveText is the body of the liveness response.
const AliveText = "Bot is alive!"

// AliveHandler returns a handler that reports the process is running.
func AliveHandler(l *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(AliveText)); err != nil {
			l.Error("Error writing response", slog.String(logging.KeyError, err.Error()))
		}
	}
}

// NotFoundHandler returns a handler that returns a 404 response.
func NotFoundHandler(l *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(l, w, http.StatusNotFound, NewMessage("Not found"))
	}
}

// MethodNotAllowedHandler returns a handler that returns a 405 response.
func MethodNotAllowedHandler(l *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(l, w, http.StatusMethodNotAllowed, NewMessage("Method %s not allowed on %s", r.Method, r.URL.Path))
	}
}
