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

type DailyStatsRepo struct {
	MongoCollection *mongo.Collection
}

func GetDailyStatsRepo(client *mongo.Client) *DailyStatsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "qiyam")
	collectionName := utils.GetEnvAsString("DAILY_STATS_COLLECTION", "daily_stats")
	return &DailyStatsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureDailyStats lazily creates today's rollup document. Idempotent:
// the upsert is the atomic create-if-absent.
func (r *DailyStatsRepo) EnsureDailyStats(ctx context.Context, userID, date string) error {
	timer := utils.TrackDBOperation("upsert", "daily_stats")
	defer timer.ObserveDuration()

	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"prayers_completed":  0,
			"dhikr_count":        0,
			"quran_reading_time": 0,
			"duas_read":          0,
			"activities":         bson.A{},
			"created_at":         now,
			"updated_at":         now,
		},
	}
	filter := bson.M{"user_id": userID, "date": date}
	_, err := r.MongoCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.TrackError("database", "daily_stats_init_failed")
		return err
	}
	return nil
}

// AppendActivity prepends an entry to the day's activity log, bounded at
// MaxDailyActivities. $position 0 keeps newest-first order; $slice drops
// overflow from the tail. Upsert guards the missing-document case.
func (r *DailyStatsRepo) AppendActivity(ctx context.Context, userID, date string, activity model.Activity) error {
	timer := utils.TrackDBOperation("update", "daily_stats")
	defer timer.ObserveDuration()

	update := bson.M{
		"$push": bson.M{
			"activities": bson.M{
				"$each":     bson.A{activity},
				"$position": 0,
				"$slice":    model.MaxDailyActivities,
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	filter := bson.M{"user_id": userID, "date": date}
	_, err := r.MongoCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.TrackError("database", "activity_append_failed")
		return err
	}
	return nil
}

// GetDailyStats returns (nil, nil) when no rollup exists for the date.
func (r *DailyStatsRepo) GetDailyStats(ctx context.Context, userID, date string) (*model.DailyStats, error) {
	timer := utils.TrackDBOperation("find", "daily_stats")
	defer timer.ObserveDuration()

	var day model.DailyStats
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&day)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "daily_stats_fetch_failed")
		return nil, err
	}
	return &day, nil
}

// GetDateRange returns rollups for [from, to] inclusive, oldest first,
// for weekly and monthly progress views.
func (r *DailyStatsRepo) GetDateRange(ctx context.Context, userID, from, to string) ([]*model.DailyStats, error) {
	timer := utils.TrackDBOperation("find", "daily_stats")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "daily_stats_range_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []*model.DailyStats
	if err := cursor.All(ctx, &days); err != nil {
		utils.TrackError("database", "daily_stats_decode_failed")
		return nil, err
	}
	return days, nil
}

var _ usecase.ActivityStore = (*DailyStatsRepo)(nil)
