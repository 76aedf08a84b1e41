package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/repository/repositorytest"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BALANCE_SCALE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BALANCE_SCALE_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	n := 0
	repositorytest.Run(t, func(t *testing.T) *repository.Store {
		n++
		name := fmt.Sprintf("balance_scale_test_%d_%d", time.Now().UnixNano(), n)
		t.Cleanup(func() { client.Database(name).Drop(context.Background()) })
		if err := EnsureIndexes(context.Background(), client, name); err != nil {
			t.Fatalf("EnsureIndexes() error = %v", err)
		}
		return NewStore(client, name)
	})
}
