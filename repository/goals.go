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

type GoalsRepo struct {
	MongoCollection *mongo.Collection
}

func GetGoalsRepo(client *mongo.Client) *GoalsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "qiyam")
	collectionName := utils.GetEnvAsString("GOALS_COLLECTION", "goals")
	return &GoalsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *GoalsRepo) OpenDailyGoals(ctx context.Context, userID string, goalType model.ActivityType) ([]*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":      userID,
		"type":         goalType,
		"period":       model.PeriodDaily,
		"is_completed": false,
	}
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "goal_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []*model.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		utils.TrackError("database", "goal_decode_failed")
		return nil, err
	}
	return goals, nil
}

// ApplyProgress advances every listed goal in one bulk write. The pipeline
// update clamps current at target and recomputes is_completed on the
// server, so concurrent applications never overshoot or lose updates.
func (r *GoalsRepo) ApplyProgress(ctx context.Context, goalIDs []string, amount int) error {
	timer := utils.TrackDBOperation("bulk_update", "goals")
	defer timer.ObserveDuration()

	if len(goalIDs) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(goalIDs))
	for _, id := range goalIDs {
		pipeline := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"current": bson.M{"$min": bson.A{
					bson.M{"$add": bson.A{"$current", amount}},
					"$target",
				}},
				"updated_at": now,
			}}},
			{{Key: "$set", Value: bson.M{
				"is_completed": bson.M{"$gte": bson.A{"$current", "$target"}},
			}}},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(pipeline))
	}

	_, err := r.MongoCollection.BulkWrite(ctx, models)
	if err != nil {
		utils.TrackError("database", "goal_progress_failed")
		return err
	}
	return nil
}

func (r *GoalsRepo) CountUserGoals(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "goals")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "goal_count_failed")
		return 0, err
	}
	return count, nil
}

func (r *GoalsRepo) CreateGoals(ctx context.Context, goals []*model.Goal) error {
	timer := utils.TrackDBOperation("insert", "goals")
	defer timer.ObserveDuration()

	if len(goals) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(goals))
	for _, g := range goals {
		docs = append(docs, g)
	}
	if _, err := r.MongoCollection.InsertMany(ctx, docs); err != nil {
		utils.TrackError("database", "goal_creation_failed")
		return err
	}
	return nil
}

// ResetDailyGoals zeroes progress on all of the user's daily goals.
func (r *GoalsRepo) ResetDailyGoals(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "goals")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "period": model.PeriodDaily}
	update := bson.M{"$set": bson.M{
		"current":      0,
		"is_completed": false,
		"updated_at":   time.Now(),
	}}
	if _, err := r.MongoCollection.UpdateMany(ctx, filter, update); err != nil {
		utils.TrackError("database", "goal_reset_failed")
		return err
	}
	return nil
}

// ListGoals returns all of the user's goals, newest first.
func (r *GoalsRepo) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "goal_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []*model.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		utils.TrackError("database", "goal_decode_failed")
		return nil, err
	}
	return goals, nil
}

func (r *GoalsRepo) CreateGoal(ctx context.Context, goal *model.Goal) error {
	timer := utils.TrackDBOperation("insert", "goals")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, goal); err != nil {
		utils.TrackError("database", "goal_creation_failed")
		return err
	}
	return nil
}

var _ usecase.GoalStore = (*GoalsRepo)(nil)
