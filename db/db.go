package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection     *mongo.Collection
	MessagesCollection *mongo.Collection

	Client *mongo.Client
)

// Connect establishes the MongoDB connection and wires up the
// collection handles used across the handler packages.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	Client = client
	chatdb := client.Database("chatdb")
	UserCollection = chatdb.Collection("users")
	MessagesCollection = chatdb.Collection("messages")

	return client, nil
}

// EnsureIndexes creates the indexes the app relies on. Email uniqueness
// backs the duplicate-signup check; the message compound index serves the
// conversation and unseen-count queries.
func EnsureIndexes(ctx context.Context) error {
	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = MessagesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "seen", Value: 1}},
	})
	return err
}
