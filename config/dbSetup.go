package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Users      *mongo.Collection
	Properties *mongo.Collection
	Roommates  *mongo.Collection
}

func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	log.Info().Msg("Connected to MongoDB")
	return client, nil
}

func InitCollections(client *mongo.Client, dbName string) Collections {
	db := client.Database(dbName)
	return Collections{
		Users:      db.Collection("users"),
		Properties: db.Collection("properties"),
		Roommates:  db.Collection("roommates"),
	}
}

// EnsureIndexes creates the indexes the listing queries and the user lookup
// rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, cols Collections) error {
	specs := map[*mongo.Collection][]mongo.IndexModel{
		cols.Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		cols.Properties: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "propertyType", Value: 1}, {Key: "price", Value: 1}}},
		},
		cols.Roommates: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
	}

	for col, models := range specs {
		names, err := col.Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", col.Name(), err)
		}
		log.Info().Str("collection", col.Name()).Strs("indexes", names).Msg("Indexes ensured")
	}
	return nil
}

func CloseDBConnection(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
		return
	}
	log.Info().Msg("MongoDB connection closed")
}
