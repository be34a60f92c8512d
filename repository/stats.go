package repository

import (
	"context"
	"time"

	"main/model"
	"main/usecase"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatsRepo struct {
	MongoCollection *mongo.Collection
}

func GetStatsRepo(client *mongo.Client) *StatsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "qiyam")
	collectionName := utils.GetEnvAsString("USER_STATS_COLLECTION", "user_stats")
	return &StatsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// GetUserStats returns (nil, nil) when the user has no stats document yet.
func (r *StatsRepo) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	timer := utils.TrackDBOperation("find", "user_stats")
	defer timer.ObserveDuration()

	var stats model.UserStats
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&stats)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "stats_fetch_failed")
		return nil, err
	}
	return &stats, nil
}

// EnsureUserStats creates a zeroed stats document if none exists. The
// upsert makes concurrent first-touch initializations collapse into one.
func (r *StatsRepo) EnsureUserStats(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("upsert", "user_stats")
	defer timer.ObserveDuration()

	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"prayers_completed":        0,
			"prayers_completed_today":  0,
			"dhikr_count":              0,
			"dhikr_count_today":        0,
			"quran_reading_time":       0,
			"quran_reading_time_today": 0,
			"total_duas":               0,
			"duas_today":               0,
			"streak_days":              0,
			"last_updated":             now,
			"created_at":               now,
		},
	}
	_, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.TrackError("database", "stats_init_failed")
		return err
	}
	return nil
}

func (r *StatsRepo) SetStreak(ctx context.Context, userID string, days int, at time.Time) error {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"streak_days": days, "last_updated": at}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "streak_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "stats_not_found")
		return usecase.Errorf(usecase.CodeDocumentMissing, "repo.stats", "no stats document for user %s", userID)
	}
	return nil
}

// ResetDailyCounters zeroes every *_today field. Called by the external
// daily-reset job at the user's local midnight.
func (r *StatsRepo) ResetDailyCounters(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"prayers_completed_today":  0,
		"dhikr_count_today":        0,
		"quran_reading_time_today": 0,
		"duas_today":               0,
		"last_updated":             time.Now(),
	}}
	_, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "daily_reset_failed")
		return err
	}
	return nil
}

// WatchUserStats opens a change stream on the user's stats document for
// live dashboard updates. Events may arrive out of causal order relative
// to the observer's own writes; consumers must tolerate that.
func (r *StatsRepo) WatchUserStats(ctx context.Context, userID string) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fullDocument.user_id": userID}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.MongoCollection.Watch(ctx, pipeline, opts)
	if err != nil {
		utils.TrackError("database", "stats_watch_failed")
		return nil, err
	}
	return stream, nil
}

var _ usecase.StatsStore = (*StatsRepo)(nil)
