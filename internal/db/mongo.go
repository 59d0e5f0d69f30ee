package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the services. treks is owned by the catalogue service and
// only read and scrubbed here.
const (
	SettingsCollection      = "settings"
	TrekSectionsCollection  = "treksections"
	NotificationsCollection = "notifications"
	TreksCollection         = "treks"
)

// AppName identifies this process in Mongo's currentOp and server logs.
const AppName = "trek-admin"

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 5 * time.Second
)

// ConnectDB connects, pings the primary and returns the client with its database.
// The connection survives ctx; ctx only bounds the handshake.
func ConnectDB(ctx context.Context, log logr.Logger, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName(AppName).
		SetServerSelectionTimeout(serverSelectionTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB primary: %w", err)
	}

	log.Info("connected to MongoDB", "database", dbName)
	return client, client.Database(dbName), nil
}

// DisconnectDB closes client, waiting at most connectTimeout for in-flight operations.
func DisconnectDB(log logr.Logger, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	log.Info("MongoDB connection closed")
	return nil
}
