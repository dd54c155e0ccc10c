package connection

import (
	"context"
	"fmt"

	dbMonitoring "github.com/Jacobbrewer1/verifier/pkg/dataaccess/monitoring"
	"github.com/go-redis/redis/v8"
)

// Redis connects to the shared registry.
type Redis struct {
	Address  string
	Password string
	DB       int
}

// Connect creates the client and checks the server can be reached.
func (r *Redis) Connect(ctx context.Context) (*redis.Client, error) {
	if r.Address == "" {
		return nil, ErrNoURI
	}

	client := redis.NewClient(&redis.Options{
		Addr:     r.Address,
		Password: r.Password,
		DB:       r.DB,
	})

	if err := PingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// PingRedis checks the server can be reached.
func PingRedis(ctx context.Context, client *redis.Client) error {
	done := dbMonitoring.ObserveRedis("health_check", "ping")
	defer done()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("error pinging redis: %w", err)
	}
	return nil
}
