// Package testutil holds helpers shared by the Mongo backed integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names the variable that enables the integration tests.
const MongoURIEnv = "MONGO_URI_TEST"

var mongoURI = sync.OnceValue(func() string {
	// .env at the module root, then the working directory
	_, file, _, _ := runtime.Caller(0)
	if godotenv.Load(filepath.Join(filepath.Dir(file), "..", "..", ".env")) != nil {
		_ = godotenv.Load()
	}
	return os.Getenv(MongoURIEnv)
})

// MongoURI returns the integration test URI, or "" when none is configured.
func MongoURI() string { return mongoURI() }

// MongoDatabase connects to the integration test server and returns a fresh
// database named prefix plus a random suffix, dropped again when the test ends.
// The test is skipped when MONGO_URI_TEST is unset.
func MongoDatabase(t testing.TB, prefix string) *mongo.Database {
	t.Helper()
	uri := MongoURI()
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", MongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("trek-admin-tests"))
	require.NoError(t, err, "connect to test MongoDB")
	require.NoError(t, client.Ping(ctx, nil), "ping test MongoDB")

	name := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	database := client.Database(name)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return database
}
