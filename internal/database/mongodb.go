// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client    *mongo.Client
	Posts     *mongo.Collection
	Bookmarks *mongo.Collection
	Comments  *mongo.Collection
}

func NewMongoDB(uri string, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	m := &MongoDB{
		Client:    client,
		Posts:     db.Collection("posts"),
		Bookmarks: db.Collection("bookmarks"),
		Comments:  db.Collection("comments"),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// ensureIndexes creates the indexes the adapters rely on: bookmark pairs are
// unique, comments are looked up by post.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Bookmarks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userid", Value: 1}, {Key: "postid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create bookmark index: %v", err)
	}

	_, err = m.Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment index: %v", err)
	}

	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
