package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	slotsCollection      = "slots"
	productionCollection = "production_records"
	recipesSlot          = "recipes"
)

// Client owns the MongoDB connection shared by the repositories in this package.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect opens and verifies a MongoDB connection.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName))
	return &Client{client: client, db: client.Database(dbName), logger: logger}, nil
}

// Recipes returns the store holding the recipe slot.
func (c *Client) Recipes() *RecipeStore {
	return &RecipeStore{coll: c.db.Collection(slotsCollection), slot: recipesSlot, logger: c.logger}
}

// Production returns the production record repository.
func (c *Client) Production() *ProductionRepository {
	return &ProductionRepository{coll: c.db.Collection(productionCollection), logger: c.logger}
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
