package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/verifier/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// pingTimeout bounds a single connectivity check.
const pingTimeout = 5 * time.Second

// ErrNoURI is returned when connecting without a connection string.
var ErrNoURI = errors.New("no connection string")

// MongoDB connects to the decision history database.
type MongoDB struct {
	ConnectionString string
}

// Connect opens the connection pool and checks the server can be reached.
func (m *MongoDB) Connect(ctx context.Context) (*mongo.Client, error) {
	if m.ConnectionString == "" {
		return nil, ErrNoURI
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(m.ConnectionString).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err := PingMongo(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// PingMongo checks the primary can be reached.
func PingMongo(ctx context.Context, client *mongo.Client) error {
	// Create a new timer to measure the latency of the check.
	t := prometheus.NewTimer(dbMonitoring.MongoLatency.WithLabelValues("health_check", "ping", "-", "-"))
	defer t.ObserveDuration()
	dbMonitoring.MongoTotalRequests.WithLabelValues("health_check", "ping", "-", "-").Inc()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}
