package repository

import (
	"context"

	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProgressRepo commits activity events. The UserStats increments, the
// DailyStats upsert-increment and the prayer log insert run inside one
// transaction so a failure leaves no partial state.
type ProgressRepo struct {
	client     *mongo.Client
	stats      *mongo.Collection
	daily      *mongo.Collection
	prayerLogs *mongo.Collection
}

func GetProgressRepo(client *mongo.Client) *ProgressRepo {
	db := client.Database(utils.GetEnvAsString("MONGO_DB", "qiyam"))
	return &ProgressRepo{
		client:     client,
		stats:      db.Collection(utils.GetEnvAsString("USER_STATS_COLLECTION", "user_stats")),
		daily:      db.Collection(utils.GetEnvAsString("DAILY_STATS_COLLECTION", "daily_stats")),
		prayerLogs: db.Collection(utils.GetEnvAsString("PRAYER_LOGS_COLLECTION", "prayer_logs")),
	}
}

// statsFields maps an activity type to its lifetime and today counter
// fields on the UserStats document plus the DailyStats counter field.
func statsFields(t model.ActivityType) (lifetime, today, daily string) {
	switch t {
	case model.ActivityPrayer:
		return "prayers_completed", "prayers_completed_today", "prayers_completed"
	case model.ActivityDhikr:
		return "dhikr_count", "dhikr_count_today", "dhikr_count"
	case model.ActivityQuran:
		return "quran_reading_time", "quran_reading_time_today", "quran_reading_time"
	case model.ActivityDua:
		return "total_duas", "duas_today", "duas_read"
	}
	return "", "", ""
}

func (r *ProgressRepo) CommitProgress(ctx context.Context, delta usecase.ProgressDelta) error {
	timer := utils.TrackDBOperation("transaction", "progress")
	defer timer.ObserveDuration()

	lifetime, today, daily := statsFields(delta.Type)
	if lifetime == "" {
		utils.TrackError("database", "unknown_activity_type")
		return usecase.Errorf(usecase.CodeInvalidArgument, "repo.progress", "unknown activity type %q", delta.Type)
	}

	statsUpdate := bson.M{
		"$inc": bson.M{lifetime: delta.Amount, today: delta.Amount},
		"$set": bson.M{
			"last_active_date": delta.OccurredAt,
			"last_updated":     delta.OccurredAt,
		},
		"$setOnInsert": bson.M{
			"created_at":  delta.OccurredAt,
			"streak_days": 0,
		},
	}

	// Upsert doubles as the atomic create-if-absent: increments against a
	// not-yet-existing daily document must not fail.
	dailyUpdate := bson.M{
		"$inc": bson.M{daily: delta.Amount},
		"$set": bson.M{"updated_at": delta.OccurredAt},
		"$setOnInsert": bson.M{
			"created_at": delta.OccurredAt,
			"activities": bson.A{},
		},
	}

	session, err := r.client.StartSession()
	if err != nil {
		utils.TrackError("database", "session_start_failed")
		return usecase.E(usecase.CodeRemoteUnavailable, "repo.progress", err)
	}
	defer session.EndSession(ctx)

	upsert := options.Update().SetUpsert(true)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.stats.UpdateOne(sc, bson.M{"user_id": delta.UserID}, statsUpdate, upsert); err != nil {
			return nil, err
		}
		dailyFilter := bson.M{"user_id": delta.UserID, "date": delta.Date}
		if _, err := r.daily.UpdateOne(sc, dailyFilter, dailyUpdate, upsert); err != nil {
			return nil, err
		}
		if delta.Type == model.ActivityPrayer {
			logEntry := model.PrayerLog{
				LogID:       uuid.New().String(),
				UserID:      delta.UserID,
				PrayerName:  delta.PrayerName,
				Date:        delta.Date,
				CompletedAt: delta.OccurredAt,
				Location:    delta.Location,
			}
			if _, err := r.prayerLogs.InsertOne(sc, logEntry); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		utils.TrackError("database", "progress_commit_failed")
		return usecase.E(usecase.CodeRemoteUnavailable, "repo.progress", err)
	}
	return nil
}

// RecentPrayerLogs returns the newest prayer log entries for history
// display. The progress engine itself never reads these back.
func (r *ProgressRepo) RecentPrayerLogs(ctx context.Context, userID string, limit int64) ([]*model.PrayerLog, error) {
	timer := utils.TrackDBOperation("find", "prayer_logs")
	defer timer.ObserveDuration()

	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.prayerLogs.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "prayer_log_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*model.PrayerLog
	if err := cursor.All(ctx, &logs); err != nil {
		utils.TrackError("database", "prayer_log_decode_failed")
		return nil, err
	}
	return logs, nil
}

var _ usecase.ProgressStore = (*ProgressRepo)(nil)
