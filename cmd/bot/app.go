package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/clock"
	"github.com/Jacobbrewer1/verifier/pkg/dataaccess"
	"github.com/Jacobbrewer1/verifier/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/gateway"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/registry"
	"github.com/Jacobbrewer1/verifier/pkg/request"
	"github.com/Jacobbrewer1/verifier/pkg/scheduler"
	"github.com/Jacobbrewer1/verifier/pkg/verification"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PathAlive is the path for the liveness check.
	PathAlive = "/"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// Prefixes of the registry tables when they are kept in Redis.
	redisTickets     = "tickets"
	redisSubmissions = "submissions"

	shutdownTimeout = 10 * time.Second
)

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration of the process.
	cfg *Config

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// svc is the verification workflow.
	svc *verification.Service

	// tasks holds the pending ticket timeouts.
	tasks *scheduler.Scheduler

	// redis is the registry client. Nil when the registries are held in memory.
	redis *redis.Client

	// mongo is the decision history client. Nil when decision history is disabled.
	mongo *mongo.Client

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, cfg *Config, r *mux.Router) *App {
	return &App{
		Logger: l,
		cfg:    cfg,
		r:      r,
	}
}

func (a *App) Run() error {
	ctx := context.Background()

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.setupService(ctx); err != nil {
		return fmt.Errorf("error setting up verification: %w", err)
	}

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	if err := a.ShutdownHook(); err != nil {
		return fmt.Errorf("error shutting down application: %w", err)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	// Pending timeouts are dropped. Their channels are left for staff to remove.
	a.tasks.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error stopping monitoring server: %w", err))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing redis: %w", err))
		}
	}

	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error disconnecting from mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + a.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentGuildMembers

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking the gateway.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

// setupService connects the optional stores and creates the verification workflow.
func (a *App) setupService(ctx context.Context) error {
	tickets, submissions, err := a.registries(ctx)
	if err != nil {
		return err
	}

	var opts []verification.Option
	if a.cfg.MongoUri != "" {
		conn := &connection.MongoDB{ConnectionString: a.cfg.MongoUri}
		client, err := conn.Connect(ctx)
		if err != nil {
			return fmt.Errorf("error connecting to mongo: %w", err)
		}
		a.mongo = client
		opts = append(opts, verification.WithDecisionRecorder(dataaccess.NewDecisionDal(a.Logger, client)))
		a.Info("Decision history enabled", slog.String("key", EnvMongoUri))
	}

	a.tasks = scheduler.New(a.Logger, clock.Real())
	a.svc = verification.NewService(
		a.Logger,
		gateway.NewDiscord(a.s),
		a.cfg.Verification,
		tickets,
		submissions,
		a.tasks,
		clock.Real(),
		opts...,
	)
	return nil
}

// registries returns the ticket and submission stores, in Redis when configured and in memory otherwise.
func (a *App) registries(ctx context.Context) (registry.Store[*entities.Ticket], registry.Store[*entities.PendingSubmission], error) {
	if a.cfg.RedisAddr == "" {
		a.Debug("Using in memory registries")
		return registry.NewMemory[*entities.Ticket](), registry.NewMemory[*entities.PendingSubmission](), nil
	}

	conn := &connection.Redis{Address: a.cfg.RedisAddr}
	client, err := conn.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	a.redis = client

	a.Info("Using redis registries", slog.String("key", EnvRedisAddr))
	return registry.NewRedis[*entities.Ticket](client, redisTickets),
		registry.NewRedis[*entities.PendingSubmission](client, redisSubmissions),
		nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathAlive, middlewareHttp(a.Logger, Controller(request.AliveHandler(a.Logger)))).Methods(http.MethodGet)
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Logger, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = middlewareHttp(a.Logger, Controller(request.NotFoundHandler(a.Logger)))
	a.r.MethodNotAllowedHandler = middlewareHttp(a.Logger, Controller(request.MethodNotAllowedHandler(a.Logger)))
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.LivenessPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.s.AddHandler(a.guildLeaveHandler())

	// Buttons, select menus and modals.
	a.s.AddHandler(interactionHandler(a.Logger, a.svc))

	// Evidence uploads and the setup command.
	a.s.AddHandler(messageHandler(a.Logger, a.svc))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}
