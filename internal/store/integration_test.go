package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"io.winapps.casportfolio/internal/db"
)

// These run against real servers only when MONGODB_URI / DATABASE_URL are set.

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" || testing.Short() {
		t.Skip("MONGODB_URI not set")
	}

	testStoreContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		client, err := db.InitMongo(ctx, uri)
		require.NoError(t, err)

		dbName := fmt.Sprintf("cas_test_%d", time.Now().UnixNano())
		s, err := NewMongo(ctx, client, dbName)
		require.NoError(t, err)

		t.Cleanup(func() {
			_ = client.Database(dbName).Drop(context.Background())
			_ = s.Close(context.Background())
		})
		return s
	})
}

func TestPostgresStoreIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set")
	}

	testStoreContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		pool, err := db.InitPostgres(ctx, url)
		require.NoError(t, err)

		_, err = pool.Exec(ctx, `TRUNCATE entries`)
		require.NoError(t, err)

		s := NewPostgres(pool)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}
