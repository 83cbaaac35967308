package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client *mongo.Client
	Users  *mongo.Collection
}

func Connect(ctx context.Context, uri, database string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	users := client.Database(database).Collection("users")
	if err := ensureIndexes(ctx, users); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &DB{Client: client, Users: users}, nil
}

// ensureIndexes creates the unique email index; duplicate signups that
// race past the existence check fail at the write instead of creating
// a second record.
func ensureIndexes(ctx context.Context, users *mongo.Collection) error {
	ctxIdx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := users.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (d *DB) Close(ctx context.Context) {
	if d != nil && d.Client != nil {
		_ = d.Client.Disconnect(ctx)
	}
}
