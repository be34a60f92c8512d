package repository

import (
	"context"
	"time"

	"main/model"
	"main/usecase"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionsRepo persists dhikr counter session markers. All writes are
// best-effort from the counter's point of view; the in-memory count is
// the source of truth until completion credits the aggregator.
type SessionsRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionsRepo(client *mongo.Client) *SessionsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "qiyam")
	collectionName := utils.GetEnvAsString("DHIKR_SESSIONS_COLLECTION", "dhikr_sessions")
	return &SessionsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionsRepo) MarkStarted(ctx context.Context, session *model.DhikrSession) error {
	timer := utils.TrackDBOperation("insert", "dhikr_sessions")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_start_failed")
		return err
	}
	return nil
}

func (r *SessionsRepo) MarkProgress(ctx context.Context, sessionID string, count int) error {
	timer := utils.TrackDBOperation("update", "dhikr_sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"count": count, "updated_at": time.Now()}}
	if _, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": sessionID}, update); err != nil {
		utils.TrackError("database", "session_progress_failed")
		return err
	}
	return nil
}

func (r *SessionsRepo) MarkCompleted(ctx context.Context, sessionID string, count int, duration time.Duration) error {
	timer := utils.TrackDBOperation("update", "dhikr_sessions")
	defer timer.ObserveDuration()

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":           model.SessionCompleted,
		"count":            count,
		"duration_seconds": int(duration.Seconds()),
		"completed_at":     now,
		"updated_at":       now,
	}}
	if _, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": sessionID}, update); err != nil {
		utils.TrackError("database", "session_complete_failed")
		return err
	}
	return nil
}

var _ usecase.SessionStore = (*SessionsRepo)(nil)
