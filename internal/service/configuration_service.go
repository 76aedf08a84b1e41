package service

import (
	"context"
	"strings"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"go.uber.org/zap"
)

type AddendInput struct {
	MinValue int `json:"min_value" yaml:"min_value"`
	MaxValue int `json:"max_value" yaml:"max_value"`
}

type DifficultyLevelInput struct {
	LevelName string        `json:"level_name" yaml:"level_name"`
	TargetMin int           `json:"target_min" yaml:"target_min"`
	TargetMax int           `json:"target_max" yaml:"target_max"`
	Addends   []AddendInput `json:"addends" yaml:"addends"`
	TimeLimit *int          `json:"time_limit" yaml:"time_limit"`
	// 未传时默认为 true
	HintsAvailable *bool `json:"hints_available" yaml:"hints_available"`
}

// GameConfigurationInput 配置中可写的字段
type GameConfigurationInput struct {
	Title               string                 `json:"title" yaml:"title"`
	Description         *string                `json:"description" yaml:"description"`
	DifficultyLevels    []DifficultyLevelInput `json:"difficulty_levels" yaml:"difficulty_levels"`
	StartingLevel       string                 `json:"starting_level" yaml:"starting_level"`
	Public              bool                   `json:"public" yaml:"public"`
	FeedbackSensitivity float64                `json:"feedback_sensitivity" yaml:"feedback_sensitivity"`
	ProgressionCriteria map[string]interface{} `json:"progression_criteria" yaml:"progression_criteria"`
}

type ConfigurationService struct {
	Repo  repository.ConfigurationRepository
	Clock func() time.Time
}

func NewConfigurationService(repo repository.ConfigurationRepository) *ConfigurationService {
	return &ConfigurationService{Repo: repo, Clock: now}
}

func now() time.Time {
	return time.Now().UTC()
}

func (s *ConfigurationService) Create(ctx context.Context, userID string, in *GameConfigurationInput) (*model.GameConfiguration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ts := s.Clock()
	cfg := in.toModel()
	cfg.ID = model.GenerateUUID()
	cfg.CreatedBy = userID
	cfg.CreatedAt = ts
	cfg.UpdatedAt = ts

	if err := s.Repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	logger.Log.Info("Game configuration created",
		zap.String("configuration_id", cfg.ID),
		zap.String("created_by", userID))
	return cfg, nil
}

func (s *ConfigurationService) Get(ctx context.Context, id string) (*model.GameConfiguration, error) {
	return s.Repo.FindByID(ctx, id)
}

// Update 替换配置的可写字段，保留 id、创建者和创建时间
func (s *ConfigurationService) Update(ctx context.Context, id string, in *GameConfigurationInput) (*model.GameConfiguration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := in.toModel()
	cfg.ID = existing.ID
	cfg.CreatedBy = existing.CreatedBy
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = s.Clock()

	if err := s.Repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigurationService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Game configuration deleted", zap.String("configuration_id", id))
	return nil
}

// List 返回所有公开配置，publicOnly 为 false 时再加上调用方自己创建的，重复的只返回一次
func (s *ConfigurationService) List(ctx context.Context, userID string, publicOnly bool) ([]model.GameConfiguration, error) {
	public, err := s.Repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	if publicOnly {
		return public, nil
	}

	own, err := s.Repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(public)+len(own))
	out := make([]model.GameConfiguration, 0, len(public)+len(own))
	for _, group := range [][]model.GameConfiguration{public, own} {
		for _, c := range group {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Validate 校验配置结构，不校验起始难度（创建会话时再报错）
func (in *GameConfigurationInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return util.InvalidArgument("title is required")
	}
	if len(in.DifficultyLevels) == 0 {
		return util.InvalidArgument("at least one difficulty level is required")
	}
	names := make(map[string]bool, len(in.DifficultyLevels))
	for i, l := range in.DifficultyLevels {
		if l.LevelName == "" {
			return util.InvalidArgument("difficulty level %d has no name", i)
		}
		if names[l.LevelName] {
			return util.InvalidArgument("duplicate difficulty level %q", l.LevelName)
		}
		names[l.LevelName] = true
		if l.TargetMin > l.TargetMax {
			return util.InvalidArgument("level %q: target_min %d > target_max %d", l.LevelName, l.TargetMin, l.TargetMax)
		}
		for j, a := range l.Addends {
			if a.MinValue > a.MaxValue {
				return util.InvalidArgument("level %q addend %d: min_value %d > max_value %d", l.LevelName, j, a.MinValue, a.MaxValue)
			}
		}
	}
	if in.FeedbackSensitivity != 0 &&
		(in.FeedbackSensitivity < model.MinFeedbackSensitivity || in.FeedbackSensitivity > model.MaxFeedbackSensitivity) {
		return util.InvalidArgument("feedback_sensitivity must be within [%.1f, %.1f]",
			model.MinFeedbackSensitivity, model.MaxFeedbackSensitivity)
	}
	return nil
}

func (in *GameConfigurationInput) toModel() *model.GameConfiguration {
	levels := make([]model.DifficultyLevel, len(in.DifficultyLevels))
	for i, l := range in.DifficultyLevels {
		addends := make([]model.Addend, len(l.Addends))
		for j, a := range l.Addends {
			addends[j] = model.Addend{MinValue: a.MinValue, MaxValue: a.MaxValue}
		}
		hints := true
		if l.HintsAvailable != nil {
			hints = *l.HintsAvailable
		}
		levels[i] = model.DifficultyLevel{
			LevelName:      l.LevelName,
			TargetMin:      l.TargetMin,
			TargetMax:      l.TargetMax,
			Addends:        addends,
			TimeLimit:      l.TimeLimit,
			HintsAvailable: hints,
		}
	}

	sensitivity := in.FeedbackSensitivity
	if sensitivity == 0 {
		sensitivity = model.DefaultFeedbackSensitivity
	}
	criteria := in.ProgressionCriteria
	if criteria == nil {
		criteria = map[string]interface{}{}
	}

	return &model.GameConfiguration{
		Title:               in.Title,
		Description:         in.Description,
		DifficultyLevels:    levels,
		StartingLevel:       in.StartingLevel,
		Public:              in.Public,
		FeedbackSensitivity: sensitivity,
		ProgressionCriteria: criteria,
	}
}
