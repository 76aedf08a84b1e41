// Package redisstore 将游戏数据以 JSON 字符串存入 Redis，
// 列表查询通过以毫秒时间为分值的有序集合索引完成
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// maxTxRetries 乐观事务冲突时的最大重试次数
const maxTxRetries = 50

type keys struct {
	prefix string
}

func (k keys) key(parts ...string) string {
	s := k.prefix
	for _, p := range parts {
		if s != "" {
			s += ":"
		}
		s += p
	}
	return s
}

func (k keys) configuration(id string) string { return k.key("config", id) }

func (k keys) configurations() string { return k.key("configs", "all") }

func (k keys) publicConfigurations() string { return k.key("configs", "public") }

func (k keys) creatorConfigurations(u string) string { return k.key("configs", "creator", u) }

func (k keys) session(id string) string { return k.key("session", id) }

func (k keys) userSessions(u string) string { return k.key("sessions", "user", u) }

func (k keys) attempt(id string) string { return k.key("attempt", id) }

func (k keys) sessionAttempts(s string) string { return k.key("attempts", "session", s) }

func (k keys) userAttempts(u string) string { return k.key("attempts", "user", u) }

func (k keys) progress(key string) string { return k.key("progress", "rec", key) }

func (k keys) userProgress(u string) string { return k.key("progress", "user", u) }

func (k keys) allProgress() string { return k.key("progress", "all") }

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func NewStore(client *redis.Client, prefix string) *repository.Store {
	k := keys{prefix: prefix}
	return &repository.Store{
		Driver:         util.DriverRedis,
		Configurations: &ConfigurationRepository{rdb: client, keys: k},
		Sessions:       &SessionRepository{rdb: client, keys: k},
		Attempts:       &AttemptRepository{rdb: client, keys: k},
		Progress:       &ProgressRepository{rdb: client, keys: k},
		Conn:           &conn{rdb: client},
	}
}

type conn struct {
	rdb *redis.Client
}

func (c *conn) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *conn) Close() error {
	return c.rdb.Close()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get[T any](ctx context.Context, cmd getter, key string, notFound error) (*T, error) {
	raw, err := cmd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

// load 将有序集合成员解析为实体，跳过实体已不存在的成员
func load[T any](ctx context.Context, rdb *redis.Client, ids []string, keyOf func(string) string) ([]T, error) {
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	entityKeys := make([]string, len(ids))
	for i, id := range ids {
		entityKeys[i] = keyOf(id)
	}
	values, err := rdb.MGet(ctx, entityKeys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entityKeys[i], err)
		}
		out = append(out, item)
	}
	return out, nil
}

// watch 以乐观事务执行 fn，冲突时重试
func watch(ctx context.Context, rdb *redis.Client, fn func(*redis.Tx) error, watched ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := rdb.Watch(ctx, fn, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis transaction on %v: too many conflicts", watched)
}

func stop(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit - 1)
}

type ConfigurationRepository struct {
	rdb  *redis.Client
	keys keys
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *model.GameConfiguration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.configuration(cfg.ID), raw, 0)
		r.index(ctx, pipe, cfg)
		return nil
	})
	return err
}

func (r *ConfigurationRepository) index(ctx context.Context, pipe redis.Pipeliner, cfg *model.GameConfiguration) {
	z := &redis.Z{Score: score(cfg.CreatedAt), Member: cfg.ID}
	pipe.ZAdd(ctx, r.keys.configurations(), z)
	pipe.ZAdd(ctx, r.keys.creatorConfigurations(cfg.CreatedBy), z)
	if cfg.Public {
		pipe.ZAdd(ctx, r.keys.publicConfigurations(), z)
	}
}

func (r *ConfigurationRepository) unindex(ctx context.Context, pipe redis.Pipeliner, cfg *model.GameConfiguration) {
	pipe.ZRem(ctx, r.keys.configurations(), cfg.ID)
	pipe.ZRem(ctx, r.keys.creatorConfigurations(cfg.CreatedBy), cfg.ID)
	pipe.ZRem(ctx, r.keys.publicConfigurations(), cfg.ID)
}

func (r *ConfigurationRepository) FindByID(ctx context.Context, id string) (*model.GameConfiguration, error) {
	return get[model.GameConfiguration](ctx, r.rdb, r.keys.configuration(id), util.ErrConfigurationNotFound)
}

func (r *ConfigurationRepository) Update(ctx context.Context, cfg *model.GameConfiguration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	key := r.keys.configuration(cfg.ID)
	return watch(ctx, r.rdb, func(tx *redis.Tx) error {
		old, err := get[model.GameConfiguration](ctx, tx, key, util.ErrConfigurationNotFound)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			r.unindex(ctx, pipe, old)
			pipe.Set(ctx, key, raw, 0)
			r.index(ctx, pipe, cfg)
			return nil
		})
		return err
	}, key)
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id string) error {
	key := r.keys.configuration(id)
	return watch(ctx, r.rdb, func(tx *redis.Tx) error {
		old, err := get[model.GameConfiguration](ctx, tx, key, util.ErrConfigurationNotFound)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			r.unindex(ctx, pipe, old)
			return nil
		})
		return err
	}, key)
}

func (r *ConfigurationRepository) ListPublic(ctx context.Context) ([]model.GameConfiguration, error) {
	return r.list(ctx, r.keys.publicConfigurations())
}

func (r *ConfigurationRepository) ListByCreator(ctx context.Context, userID string) ([]model.GameConfiguration, error) {
	return r.list(ctx, r.keys.creatorConfigurations(userID))
}

func (r *ConfigurationRepository) Count(ctx context.Context) (int64, error) {
	return r.rdb.ZCard(ctx, r.keys.configurations()).Result()
}

func (r *ConfigurationRepository) list(ctx context.Context, index string) ([]model.GameConfiguration, error) {
	ids, err := r.rdb.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return load[model.GameConfiguration](ctx, r.rdb, ids, r.keys.configuration)
}

type SessionRepository struct {
	rdb  *redis.Client
	keys keys
}

func (r *SessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.session(session.ID), raw, 0)
		pipe.ZAdd(ctx, r.keys.userSessions(session.UserID), &redis.Z{Score: score(session.StartedAt), Member: session.ID})
		return nil
	})
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.GameSession, error) {
	return get[model.GameSession](ctx, r.rdb, r.keys.session(id), util.ErrSessionNotFound)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.keys.userSessions(userID), 0, stop(limit)).Result()
	if err != nil {
		return nil, err
	}
	return load[model.GameSession](ctx, r.rdb, ids, r.keys.session)
}

func (r *SessionRepository) RecordAnswer(ctx context.Context, id string, solved bool) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, id, func(s *model.GameSession) bool { return s.RecordAnswer(solved) }, nil)
}

// RecordAttempt 作答记录的写入与会话更新放在同一个 MULTI 中
func (r *SessionRepository) RecordAttempt(ctx context.Context, attempt *model.ProblemAttempt) (*model.GameSession, error) {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return nil, err
	}
	return r.guardedUpdate(ctx, attempt.SessionID, func(s *model.GameSession) bool { return s.RecordAnswer(attempt.Correct) },
		func(pipe redis.Pipeliner) {
			queueAttempt(ctx, pipe, r.keys, attempt, raw)
		})
}

func (r *SessionRepository) Close(ctx context.Context, id string, success bool) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, id, func(s *model.GameSession) bool { return s.Close(success) }, nil)
}

// guardedUpdate 仅在会话 key 读取后未被修改时提交，
// 并发写入时只有一方能看到未结束的会话
func (r *SessionRepository) guardedUpdate(ctx context.Context, id string, apply func(*model.GameSession) bool, also func(redis.Pipeliner)) (*model.GameSession, error) {
	key := r.keys.session(id)
	var out *model.GameSession
	err := watch(ctx, r.rdb, func(tx *redis.Tx) error {
		s, err := get[model.GameSession](ctx, tx, key, util.ErrSessionNotFound)
		if err != nil {
			return err
		}
		if !apply(s) {
			return util.ErrSessionCompleted
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			if also != nil {
				also(pipe)
			}
			return nil
		})
		if err != nil {
			return err
		}
		out = s
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type AttemptRepository struct {
	rdb  *redis.Client
	keys keys
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.ProblemAttempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queueAttempt(ctx, pipe, r.keys, attempt, raw)
		return nil
	})
	return err
}

func queueAttempt(ctx context.Context, pipe redis.Pipeliner, k keys, attempt *model.ProblemAttempt, raw []byte) {
	z := &redis.Z{Score: score(attempt.Timestamp), Member: attempt.ID}
	pipe.Set(ctx, k.attempt(attempt.ID), raw, 0)
	pipe.ZAdd(ctx, k.sessionAttempts(attempt.SessionID), z)
	pipe.ZAdd(ctx, k.userAttempts(attempt.UserID), z)
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error) {
	ids, err := r.rdb.ZRange(ctx, r.keys.sessionAttempts(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return load[model.ProblemAttempt](ctx, r.rdb, ids, r.keys.attempt)
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.keys.userAttempts(userID), 0, stop(limit)).Result()
	if err != nil {
		return nil, err
	}
	return load[model.ProblemAttempt](ctx, r.rdb, ids, r.keys.attempt)
}

type ProgressRepository struct {
	rdb  *redis.Client
	keys keys
}

func (r *ProgressRepository) Find(ctx context.Context, userID, configurationID string) (*model.GameProgress, error) {
	p, err := get[model.GameProgress](ctx, r.rdb, r.keys.progress(model.ProgressKey(userID, configurationID)), util.ErrProgressNotFound)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID || p.ConfigurationID != configurationID {
		return nil, util.ErrProgressNotFound
	}
	return p, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.GameProgress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	id := progress.Key()
	z := &redis.Z{Score: score(progress.LastPlayed), Member: id}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.progress(id), raw, 0)
		pipe.ZAdd(ctx, r.keys.userProgress(progress.UserID), z)
		pipe.ZAdd(ctx, r.keys.allProgress(), z)
		return nil
	})
	return err
}

// ListByUser 过滤掉已被其他用户同名 key 覆盖的记录
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error) {
	all, err := r.list(ctx, r.keys.userProgress(userID))
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProgressRepository) ListAll(ctx context.Context) ([]model.GameProgress, error) {
	return r.list(ctx, r.keys.allProgress())
}

func (r *ProgressRepository) list(ctx context.Context, index string) ([]model.GameProgress, error) {
	ids, err := r.rdb.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return load[model.GameProgress](ctx, r.rdb, ids, r.keys.progress)
}
