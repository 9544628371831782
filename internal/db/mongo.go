package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UserCollection    = "user"
	RequestCollection = "request"
)

// Store holds the connected client and the collections the service reads.
// It is built once at startup and passed to every component that needs it.
type Store struct {
	Client   *mongo.Client
	Database *mongo.Database
	Users    *mongo.Collection
	Requests *mongo.Collection
}

// ConnectMongoDB connects and pings the deployment. The caller owns the
// returned store and must Disconnect it.
func ConnectMongoDB(ctx context.Context, uri, dbName string, timeout time.Duration, logger zerolog.Logger) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	logger.Info().Str("database", dbName).Msg("connected to mongodb")
	return NewStore(client, dbName), nil
}

// NewStore binds the service collections on an already connected client.
func NewStore(client *mongo.Client, dbName string) *Store {
	database := client.Database(dbName)
	return &Store{
		Client:   client,
		Database: database,
		Users:    database.Collection(UserCollection),
		Requests: database.Collection(RequestCollection),
	}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
