package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	statsIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_stats_user").
				SetUnique(true),
		},
	}

	dailyStatsIndexes := []mongo.IndexModel{
		// One rollup document per user per calendar date.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().
				SetName("daily_stats_user_date").
				SetUnique(true),
		},
	}

	goalsIndexes := []mongo.IndexModel{
		// Matches the open-goals query shape exactly.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "type", Value: 1},
				{Key: "period", Value: 1},
				{Key: "is_completed", Value: 1},
			},
			Options: options.Index().SetName("goals_open_lookup"),
		},
	}

	prayerLogIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "completed_at", Value: -1},
			},
			Options: options.Index().SetName("prayer_logs_user_date"),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("dhikr_sessions_user"),
		},
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("users_user_id").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("users_username").
				SetUnique(true),
		},
	}

	collections := map[string][]mongo.IndexModel{
		"user_stats":     statsIndexes,
		"daily_stats":    dailyStatsIndexes,
		"goals":          goalsIndexes,
		"prayer_logs":    prayerLogIndexes,
		"dhikr_sessions": sessionIndexes,
		"users":          userIndexes,
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
		log.Printf("Indexes ensured for collection %s", name)
	}

	return nil
}
