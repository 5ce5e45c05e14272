package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to reach MongoDB.
type Config struct {
	URI string
	// Database is used when the URI does not name one.
	Database string
	Timeout  time.Duration
}

// Connect builds a MongoDB client and selects the database. The driver dials
// lazily, so an unreachable server is not an error here; use Ping to check.
// An unparseable URI is.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo uri: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	return client, client.Database(databaseName(cs.Database, cfg.Database)), nil
}

// Ping verifies connectivity to the primary.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func databaseName(fromURI, fallback string) string {
	if fromURI != "" {
		return fromURI
	}
	return fallback
}
