// Package mongostore 将游戏数据存为 MongoDB 文档
package mongostore

import (
	"context"
	"errors"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	configurationsCollection = "game_configurations"
	sessionsCollection       = "game_sessions"
	attemptsCollection       = "problem_attempts"
	progressCollection       = "game_progress"
)

func NewStore(client *mongo.Client, database string) *repository.Store {
	db := client.Database(database)
	return &repository.Store{
		Driver:         util.DriverMongo,
		Configurations: &ConfigurationRepository{coll: db.Collection(configurationsCollection)},
		Sessions:       &SessionRepository{coll: db.Collection(sessionsCollection), attempts: db.Collection(attemptsCollection)},
		Attempts:       &AttemptRepository{coll: db.Collection(attemptsCollection)},
		Progress:       &ProgressRepository{coll: db.Collection(progressCollection)},
		Conn:           &conn{client: client},
	}
}

// EnsureIndexes 创建列表查询所需的二级索引
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	db := client.Database(database)
	specs := map[string][]mongo.IndexModel{
		configurationsCollection: {
			{Keys: bson.D{{Key: "public", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		sessionsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}}},
		},
		attemptsCollection: {
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		progressCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "last_played", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

type conn struct {
	client *mongo.Client
}

func (c *conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *conn) Close() error {
	return c.client.Disconnect(context.Background())
}

func translate(err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

type ConfigurationRepository struct {
	coll *mongo.Collection
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *model.GameConfiguration) error {
	_, err := r.coll.InsertOne(ctx, cfg)
	return err
}

func (r *ConfigurationRepository) FindByID(ctx context.Context, id string) (*model.GameConfiguration, error) {
	var cfg model.GameConfiguration
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cfg); err != nil {
		return nil, translate(err, util.ErrConfigurationNotFound)
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) Update(ctx context.Context, cfg *model.GameConfiguration) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrConfigurationNotFound
	}
	return nil
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.ErrConfigurationNotFound
	}
	return nil
}

func (r *ConfigurationRepository) ListPublic(ctx context.Context) ([]model.GameConfiguration, error) {
	return r.list(ctx, bson.M{"public": true})
}

func (r *ConfigurationRepository) ListByCreator(ctx context.Context, userID string) ([]model.GameConfiguration, error) {
	return r.list(ctx, bson.M{"created_by": userID})
}

func (r *ConfigurationRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *ConfigurationRepository) list(ctx context.Context, filter bson.M) ([]model.GameConfiguration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []model.GameConfiguration{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type SessionRepository struct {
	coll     *mongo.Collection
	attempts *mongo.Collection
}

func (r *SessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	_, err := r.coll.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.GameSession, error) {
	var s model.GameSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, translate(err, util.ErrSessionNotFound)
	}
	return &s, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	out := []model.GameSession{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SessionRepository) RecordAnswer(ctx context.Context, id string, solved bool) (*model.GameSession, error) {
	update := bson.M{"$inc": bson.M{"answer_count": 1}}
	if solved {
		update["$set"] = bson.M{"completed": true, "success": true}
	}
	return r.guardedUpdate(ctx, id, update)
}

// RecordAttempt 不依赖多文档事务（单机部署不支持）。
// 作答记录插入失败时，若会话仍处于本次作答后的状态，则回滚会话更新
func (r *SessionRepository) RecordAttempt(ctx context.Context, attempt *model.ProblemAttempt) (*model.GameSession, error) {
	s, err := r.RecordAnswer(ctx, attempt.SessionID, attempt.Correct)
	if err != nil {
		return nil, err
	}
	if _, err := r.attempts.InsertOne(ctx, attempt); err != nil {
		revert := bson.M{"$inc": bson.M{"answer_count": -1}}
		if attempt.Correct {
			revert["$set"] = bson.M{"completed": false, "success": nil}
		}
		filter := bson.M{"_id": s.ID, "answer_count": s.AnswerCount, "completed": s.Completed}
		if _, rerr := r.coll.UpdateOne(ctx, filter, revert); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Close(ctx context.Context, id string, success bool) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, id, bson.M{"$set": bson.M{"completed": true, "success": success}})
}

func (r *SessionRepository) guardedUpdate(ctx context.Context, id string, update bson.M) (*model.GameSession, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s model.GameSession
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "completed": false}, update, opts).Decode(&s)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, util.ErrSessionNotFound
	}
	return nil, util.ErrSessionCompleted
}

type AttemptRepository struct {
	coll *mongo.Collection
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.ProblemAttempt) error {
	_, err := r.coll.InsertOne(ctx, attempt)
	return err
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error) {
	return r.list(ctx, bson.M{"session_id": sessionID}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.list(ctx, bson.M{"user_id": userID}, opts)
}

func (r *AttemptRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.ProblemAttempt, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []model.ProblemAttempt{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// progressDocument 以组合主键存储进度记录
type progressDocument struct {
	ID                 string `bson:"_id"`
	model.GameProgress `bson:",inline"`
}

type ProgressRepository struct {
	coll *mongo.Collection
}

func (r *ProgressRepository) Find(ctx context.Context, userID, configurationID string) (*model.GameProgress, error) {
	var doc progressDocument
	filter := bson.M{
		"_id":              model.ProgressKey(userID, configurationID),
		"user_id":          userID,
		"configuration_id": configurationID,
	}
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, translate(err, util.ErrProgressNotFound)
	}
	return &doc.GameProgress, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.GameProgress) error {
	doc := progressDocument{ID: progress.Key(), GameProgress: *progress}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *ProgressRepository) ListAll(ctx context.Context) ([]model.GameProgress, error) {
	return r.list(ctx, bson.M{})
}

func (r *ProgressRepository) list(ctx context.Context, filter bson.M) ([]model.GameProgress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_played", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []progressDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.GameProgress, len(docs))
	for i := range docs {
		out[i] = docs[i].GameProgress
	}
	return out, nil
}
