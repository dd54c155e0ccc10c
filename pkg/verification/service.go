// Package verification implements the verification ticket workflow: offering a method, opening a private review
// channel, collecting evidence or a vouch, forwarding it to staff and applying the staff decision.
package verification

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/Jacobbrewer1/verifier/pkg/clock"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/registry"
	"github.com/Jacobbrewer1/verifier/pkg/scheduler"
)

const (
	// DefaultInactivityTimeout is how long a ticket may stay open without a submission.
	DefaultInactivityTimeout = 5 * time.Minute

	// DefaultSelfDestructDelay is how long a review channel survives after a submission.
	DefaultSelfDestructDelay = time.Minute

	// recentMessageScan is how many admin channel messages are searched when a submission was not recorded.
	recentMessageScan = 50
)

// Config is the guild configuration of the workflow.
type Config struct {
	// AdminChannelID is the channel staff review submissions in.
	AdminChannelID string

	// VerificationLogChannelID is the channel approved verifications are logged to.
	VerificationLogChannelID string

	// StaffLogChannelID is the channel every staff decision is logged to.
	StaffLogChannelID string

	// VerifiedRoleIDs are the roles granted on approval.
	VerifiedRoleIDs []string

	// InactivityTimeout overrides DefaultInactivityTimeout when set.
	InactivityTimeout time.Duration

	// SelfDestructDelay overrides DefaultSelfDestructDelay when set.
	SelfDestructDelay time.Duration
}

func (c *Config) inactivityTimeout() time.Duration {
	if c.InactivityTimeout > 0 {
		return c.InactivityTimeout
	}
	return DefaultInactivityTimeout
}

func (c *Config) selfDestructDelay() time.Duration {
	if c.SelfDestructDelay > 0 {
		return c.SelfDestructDelay
	}
	return DefaultSelfDestructDelay
}

// DecisionRecorder keeps a history of staff decisions.
type DecisionRecorder interface {
	SaveDecision(ctx context.Context, d *entities.Decision) error
}

// Service is the verification workflow.
type Service struct {
	l   *slog.Logger
	s   Session
	cfg Config

	tickets     registry.Store[*entities.Ticket]
	submissions registry.Store[*entities.PendingSubmission]
	tasks       *scheduler.Scheduler
	clk         clock.Clock

	decisions DecisionRecorder
	client    *http.Client
	gesture   func() string
}

// Option configures optional parts of the Service.
type Option func(*Service)

// WithDecisionRecorder records every staff decision.
func WithDecisionRecorder(r DecisionRecorder) Option {
	return func(s *Service) {
		s.decisions = r
	}
}

// WithHTTPClient sets the client used to download evidence before forwarding it.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithGesture sets how the gesture requested for ID verification is picked.
func WithGesture(f func() string) Option {
	return func(s *Service) {
		s.gesture = f
	}
}

// NewService creates the workflow.
func NewService(
	l *slog.Logger,
	s Session,
	cfg Config,
	tickets registry.Store[*entities.Ticket],
	submissions registry.Store[*entities.PendingSubmission],
	tasks *scheduler.Scheduler,
	clk clock.Clock,
	opts ...Option,
) *Service {
	svc := &Service{
		l:           l,
		s:           s,
		cfg:         cfg,
		tickets:     tickets,
		submissions: submissions,
		tasks:       tasks,
		clk:         clk,
		client:      &http.Client{Timeout: 30 * time.Second},
		gesture:     randomGesture,
	}

	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var gestures = []string{
	"peace sign ✌️",
	"thumbs up 👍",
	"hold up 3 fingers 🤟",
	"point to the ceiling ☝️",
	"make a heart with your hands ❤️",
}

func randomGesture() string {
	return gestures[rand.Intn(len(gestures))]
}
