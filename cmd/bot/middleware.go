package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/customid"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/request"
	"github.com/Jacobbrewer1/verifier/pkg/verification"
	"github.com/gorilla/mux"
)

type Controller func(w http.ResponseWriter, r *http.Request)

// interactionProcessor handles component and modal interactions.
type interactionProcessor interface {
	HandleInteraction(ctx context.Context, i *discordgo.Interaction) (verification.Result, error)
	ReportError(i *discordgo.Interaction, answered bool) error
}

// messageProcessor handles guild messages.
type messageProcessor interface {
	HandleMessage(ctx context.Context, m *discordgo.Message) error
}

func middlewareHttp(l *slog.Logger, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler runs the processor for each interaction. Failures are logged and reported to the user with the
// generic error message.
func interactionHandler(l *slog.Logger, p interactionProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		now := time.Now().UTC()

		var res verification.Result
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				reportInteractionError(l, p, i.Interaction, res.Answered)
			}
		}()

		var err error
		res, err = p.HandleInteraction(context.Background(), i.Interaction)
		if res.Action == customid.ActionUnknown {
			return
		}

		command := res.Action.String()
		DiscordCommandDuration.WithLabelValues(command).Observe(time.Since(now).Seconds())

		if err != nil {
			DiscordCommandErrors.WithLabelValues(command).Inc()
			l.Error(fmt.Sprintf("Error processing command %s", command),
				slog.String(logging.KeyAction, command),
				slog.String(logging.KeyError, err.Error()))
			reportInteractionError(l, p, i.Interaction, res.Answered)
		}
	}
}

func reportInteractionError(l *slog.Logger, p interactionProcessor, i *discordgo.Interaction, answered bool) {
	if err := p.ReportError(i, answered); err != nil {
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}

// messageHandler runs the processor for each message. Failures are logged only.
func messageHandler(l *slog.Logger, p messageProcessor) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in message handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		if err := p.HandleMessage(context.Background(), m.Message); err != nil {
			l.Error("Error processing message",
				slog.String(logging.KeyChannelID, m.ChannelID),
				slog.String(logging.KeyError, err.Error()))
		}
	}
}
