package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/verifier/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

const decisionDalName = "decision_dal"

// DecisionDal is the history of staff decisions.
type DecisionDal interface {
	// SaveDecision saves a decision.
	SaveDecision(ctx context.Context, decision *entities.Decision) error
}

type decisionDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewDecisionDal creates a new decision data access layer.
func NewDecisionDal(l *slog.Logger, client *mongo.Client) DecisionDal {
	return &decisionDalImpl{
		l:      l.With(slog.String(logging.KeyDal, decisionDalName)),
		client: client,
	}
}

func (d *decisionDalImpl) SaveDecision(ctx context.Context, decision *entities.Decision) error {
	collection := d.client.Database(mongoDatabase).Collection(decisionsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(decisionDalName, "save_decision", mongoDatabase, decisionsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(decisionDalName, "save_decision", mongoDatabase, decisionsCollection))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, decision); err != nil {
		return fmt.Errorf("error inserting decision: %w", err)
	}

	d.l.Debug("Decision saved",
		slog.String(logging.KeyUserID, decision.TargetID),
		slog.String(logging.KeyGuildID, decision.GuildID))
	return nil
}
