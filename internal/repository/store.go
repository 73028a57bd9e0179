// Package repository implements the MongoDB persistence layer: conversation
// storage, the scoped resource collections, and the startup reconciliation
// of legacy single-user data.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names. These match the legacy deployment's collections so
// reconciliation can adopt data written before this version.
const (
	colChats    = "chats"
	colLetters  = "letters"
	colMemories = "memories"
	colDaily    = "dailymessages"
	colSecrets  = "secrets"
	colVisitors = "visitors"
	colUsers    = "users"
)

// Store wraps one MongoDB database. It is the only shared mutable resource
// in the process; inject it into components rather than reaching for a
// package-level handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect dials MongoDB, verifies the connection, and returns a Store bound
// to the named database.
func Connect(ctx context.Context, uri, dbName string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("repository: mongodb uri must not be empty")
	}
	if strings.TrimSpace(dbName) == "" {
		return nil, errors.New("repository: database name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("repository: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("repository: ping: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Close releases the connection pool. Call on shutdown, after the HTTP
// server has drained.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) chats() *mongo.Collection    { return s.db.Collection(colChats) }
func (s *Store) letters() *mongo.Collection  { return s.db.Collection(colLetters) }
func (s *Store) memories() *mongo.Collection { return s.db.Collection(colMemories) }
func (s *Store) daily() *mongo.Collection    { return s.db.Collection(colDaily) }
func (s *Store) secrets() *mongo.Collection  { return s.db.Collection(colSecrets) }
func (s *Store) visitors() *mongo.Collection { return s.db.Collection(colVisitors) }
func (s *Store) users() *mongo.Collection    { return s.db.Collection(colUsers) }
