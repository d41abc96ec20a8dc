package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a pooled client and verifies the connection with a ping.
// The client is shared by every handler for the lifetime of the process.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the indexes the handlers rely on. The unique
// primaryName index uses a strength-2 collation so "Monstera" and
// "MONSTERA" collide, which is what turns a duplicate create into a 409
// instead of a racy check-then-insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("plants").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "primaryName", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("plants").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "contributorId", Value: 1}},
	})
	return err
}
