// Package gormstore 通过 gorm 将游戏数据存入关系型数据库（MySQL 或 SQLite）
package gormstore

import (
	"context"
	"errors"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewStore(db *gorm.DB, driver string) *repository.Store {
	return &repository.Store{
		Driver:         driver,
		Configurations: NewConfigurationRepository(db),
		Sessions:       NewSessionRepository(db),
		Attempts:       NewAttemptRepository(db),
		Progress:       NewProgressRepository(db),
		Conn:           &conn{DB: db},
	}
}

type conn struct {
	DB *gorm.DB
}

func (c *conn) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *conn) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

type ConfigurationRepository struct {
	DB *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) *ConfigurationRepository {
	return &ConfigurationRepository{DB: db}
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *model.GameConfiguration) error {
	return r.DB.WithContext(ctx).Create(configurationRow(cfg)).Error
}

func (r *ConfigurationRepository) FindByID(ctx context.Context, id string) (*model.GameConfiguration, error) {
	var row GameConfigurationRow
	if err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, util.ErrConfigurationNotFound)
	}
	c := row.toModel()
	return &c, nil
}

func (r *ConfigurationRepository) Update(ctx context.Context, cfg *model.GameConfiguration) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&GameConfigurationRow{}).Where("id = ?", cfg.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return util.ErrConfigurationNotFound
		}
		return tx.Save(configurationRow(cfg)).Error
	})
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&GameConfigurationRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrConfigurationNotFound
	}
	return nil
}

func (r *ConfigurationRepository) ListPublic(ctx context.Context) ([]model.GameConfiguration, error) {
	return r.list(r.DB.WithContext(ctx).Where("public = ?", true))
}

func (r *ConfigurationRepository) ListByCreator(ctx context.Context, userID string) ([]model.GameConfiguration, error) {
	return r.list(r.DB.WithContext(ctx).Where("created_by = ?", userID))
}

func (r *ConfigurationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&GameConfigurationRow{}).Count(&count).Error
	return count, err
}

func (r *ConfigurationRepository) list(query *gorm.DB) ([]model.GameConfiguration, error) {
	var rows []GameConfigurationRow
	if err := query.Order("created_at asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.GameConfiguration, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	return r.DB.WithContext(ctx).Create(sessionRow(session)).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.GameSession, error) {
	return findSession(r.DB.WithContext(ctx), id)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error) {
	var rows []GameSessionRow
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("started_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.GameSession, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func answerUpdates(solved bool) map[string]interface{} {
	updates := map[string]interface{}{
		"answer_count": gorm.Expr("answer_count + ?", 1),
	}
	if solved {
		updates["completed"] = true
		updates["success"] = true
	}
	return updates
}

func (r *SessionRepository) RecordAnswer(ctx context.Context, id string, solved bool) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, id, answerUpdates(solved), nil)
}

func (r *SessionRepository) RecordAttempt(ctx context.Context, attempt *model.ProblemAttempt) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, attempt.SessionID, answerUpdates(attempt.Correct), func(tx *gorm.DB) error {
		return tx.Create(attemptRow(attempt)).Error
	})
}

func (r *SessionRepository) Close(ctx context.Context, id string, success bool) (*model.GameSession, error) {
	return r.guardedUpdate(ctx, id, map[string]interface{}{
		"completed": true,
		"success":   success,
	}, nil)
}

// guardedUpdate 仅在会话未结束时执行更新；then 不为空时在同一事务内紧随其后执行
func (r *SessionRepository) guardedUpdate(ctx context.Context, id string, updates map[string]interface{}, then func(tx *gorm.DB) error) (*model.GameSession, error) {
	var out *model.GameSession
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&GameSessionRow{}).
			Where("id = ? AND completed = ?", id, false).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&GameSessionRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return util.ErrSessionNotFound
			}
			return util.ErrSessionCompleted
		}
		if then != nil {
			if err := then(tx); err != nil {
				return err
			}
		}
		s, err := findSession(tx, id)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findSession(db *gorm.DB, id string) (*model.GameSession, error) {
	var row GameSessionRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, util.ErrSessionNotFound)
	}
	s := row.toModel()
	return &s, nil
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.ProblemAttempt) error {
	return r.DB.WithContext(ctx).Create(attemptRow(attempt)).Error
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error) {
	return r.list(r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Order("timestamp asc"))
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.list(query)
}

func (r *AttemptRepository) list(query *gorm.DB) ([]model.ProblemAttempt, error) {
	var rows []ProblemAttemptRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.ProblemAttempt, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, configurationID string) (*model.GameProgress, error) {
	var row GameProgressRow
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND configuration_id = ?", userID, configurationID).
		First(&row, "id = ?", model.ProgressKey(userID, configurationID)).Error
	if err != nil {
		return nil, translate(err, util.ErrProgressNotFound)
	}
	p := row.toModel()
	return &p, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.GameProgress) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(progressRow(progress)).Error
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error) {
	return r.list(r.DB.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *ProgressRepository) ListAll(ctx context.Context) ([]model.GameProgress, error) {
	return r.list(r.DB.WithContext(ctx))
}

func (r *ProgressRepository) list(query *gorm.DB) ([]model.GameProgress, error) {
	var rows []GameProgressRow
	if err := query.Order("last_played desc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.GameProgress, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}
