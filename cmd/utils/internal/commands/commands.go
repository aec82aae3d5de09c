package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thewinery/selforder/internal/menu"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "winery_selforder"
)

func connect(ctx context.Context, config *apt.Config) (*mongo.Client, *mongo.Database, error) {
	mongoURL, _ := config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = defaultMongoURL
	}
	dbName, _ := config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = defaultDBName
	}

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(dbName), nil
}

// SeedMenu applies the demo menu seeds, skipping ones already tracked.
func SeedMenu(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting menu seeding...")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	tracker := seed.NewMongoTracker(db)
	if err := seed.Apply(ctx, tracker, menu.Seeds(db), "menu"); err != nil {
		return fmt.Errorf("apply menu seeds: %w", err)
	}
	return nil
}

// ClearMenu removes seeded menu items and their seed markers so seed-menu
// can run again from scratch.
func ClearMenu(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	result, err := db.Collection("menu_items").DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("clear menu items: %w", err)
	}
	logger.Info("Menu items removed", "count", result.DeletedCount)

	if _, err := db.Collection("_seeds").DeleteMany(ctx, bson.M{}); err != nil {
		logger.Infof("Failed to clear seed markers (may not exist): %v", err)
	}
	return nil
}

// ResetDB drops the self-order database - USE WITH CAUTION
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Infof("DANGER: This will drop the self-order database!")
	logger.Infof("This action cannot be undone!")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Dropping database", "database", db.Name())
	result := db.RunCommand(ctx, bson.D{{Key: "dropDatabase", Value: 1}})
	if result.Err() != nil {
		return fmt.Errorf("drop database %s: %w", db.Name(), result.Err())
	}

	logger.Info("Database dropped", "database", db.Name())
	return nil
}
