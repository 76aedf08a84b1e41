// Package memory 将所有数据保存在进程内存中，由一把互斥锁保护，每次仓库调用都是原子的
package memory

import (
	"context"
	"sort"
	"sync"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
)

type db struct {
	mu             sync.RWMutex
	configurations map[string]model.GameConfiguration
	sessions       map[string]model.GameSession
	attempts       []model.ProblemAttempt
	progress       map[string]model.GameProgress
}

func NewStore() *repository.Store {
	d := &db{
		configurations: make(map[string]model.GameConfiguration),
		sessions:       make(map[string]model.GameSession),
		progress:       make(map[string]model.GameProgress),
	}
	return &repository.Store{
		Driver:         util.DriverMemory,
		Configurations: &ConfigurationRepository{db: d},
		Sessions:       &SessionRepository{db: d},
		Attempts:       &AttemptRepository{db: d},
		Progress:       &ProgressRepository{db: d},
	}
}

type ConfigurationRepository struct {
	db *db
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *model.GameConfiguration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.configurations[cfg.ID] = cloneConfiguration(*cfg)
	return nil
}

func (r *ConfigurationRepository) FindByID(ctx context.Context, id string) (*model.GameConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.configurations[id]
	if !ok {
		return nil, util.ErrConfigurationNotFound
	}
	out := cloneConfiguration(c)
	return &out, nil
}

func (r *ConfigurationRepository) Update(ctx context.Context, cfg *model.GameConfiguration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.configurations[cfg.ID]; !ok {
		return util.ErrConfigurationNotFound
	}
	r.db.configurations[cfg.ID] = cloneConfiguration(*cfg)
	return nil
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.configurations[id]; !ok {
		return util.ErrConfigurationNotFound
	}
	delete(r.db.configurations, id)
	return nil
}

func (r *ConfigurationRepository) ListPublic(ctx context.Context) ([]model.GameConfiguration, error) {
	return r.list(func(c *model.GameConfiguration) bool { return c.Public }), nil
}

func (r *ConfigurationRepository) ListByCreator(ctx context.Context, userID string) ([]model.GameConfiguration, error) {
	return r.list(func(c *model.GameConfiguration) bool { return c.CreatedBy == userID }), nil
}

func (r *ConfigurationRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.configurations)), nil
}

func (r *ConfigurationRepository) list(keep func(*model.GameConfiguration) bool) []model.GameConfiguration {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.GameConfiguration, 0)
	for _, c := range r.db.configurations {
		if keep(&c) {
			out = append(out, cloneConfiguration(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type SessionRepository struct {
	db *db
}

func (r *SessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.GameSession, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	out := cloneSession(s)
	return &out, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.GameSession, 0)
	for _, s := range r.db.sessions {
		if s.UserID == userID {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SessionRepository) RecordAnswer(ctx context.Context, id string, solved bool) (*model.GameSession, error) {
	return r.mutate(id, func(s *model.GameSession) bool { return s.RecordAnswer(solved) })
}

func (r *SessionRepository) RecordAttempt(ctx context.Context, attempt *model.ProblemAttempt) (*model.GameSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out, err := r.apply(attempt.SessionID, func(s *model.GameSession) bool { return s.RecordAnswer(attempt.Correct) })
	if err != nil {
		return nil, err
	}
	r.db.attempts = append(r.db.attempts, cloneAttempt(*attempt))
	return out, nil
}

func (r *SessionRepository) Close(ctx context.Context, id string, success bool) (*model.GameSession, error) {
	return r.mutate(id, func(s *model.GameSession) bool { return s.Close(success) })
}

func (r *SessionRepository) mutate(id string, fn func(*model.GameSession) bool) (*model.GameSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.apply(id, fn)
}

// apply 对已存储的会话执行 fn，调用方需持有写锁
func (r *SessionRepository) apply(id string, fn func(*model.GameSession) bool) (*model.GameSession, error) {
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if !fn(&s) {
		return nil, util.ErrSessionCompleted
	}
	r.db.sessions[id] = s
	out := cloneSession(s)
	return &out, nil
}

type AttemptRepository struct {
	db *db
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.ProblemAttempt) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.attempts = append(r.db.attempts, cloneAttempt(*attempt))
	return nil
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.ProblemAttempt, 0)
	for _, a := range r.db.attempts {
		if a.SessionID == sessionID {
			out = append(out, cloneAttempt(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.ProblemAttempt, 0)
	for i := len(r.db.attempts) - 1; i >= 0; i-- {
		if a := r.db.attempts[i]; a.UserID == userID {
			out = append(out, cloneAttempt(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type ProgressRepository struct {
	db *db
}

func (r *ProgressRepository) Find(ctx context.Context, userID, configurationID string) (*model.GameProgress, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.progress[model.ProgressKey(userID, configurationID)]
	if !ok || p.UserID != userID || p.ConfigurationID != configurationID {
		return nil, util.ErrProgressNotFound
	}
	return &p, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.GameProgress) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.progress[progress.Key()] = *progress
	return nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error) {
	return r.list(func(p *model.GameProgress) bool { return p.UserID == userID }), nil
}

func (r *ProgressRepository) ListAll(ctx context.Context) ([]model.GameProgress, error) {
	return r.list(func(*model.GameProgress) bool { return true }), nil
}

func (r *ProgressRepository) list(keep func(*model.GameProgress) bool) []model.GameProgress {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.GameProgress, 0)
	for _, p := range r.db.progress {
		if keep(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastPlayed.Equal(out[j].LastPlayed) {
			return out[i].Key() < out[j].Key()
		}
		return out[i].LastPlayed.After(out[j].LastPlayed)
	})
	return out
}
