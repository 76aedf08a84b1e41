package service

import (
	"context"
	"errors"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
)

type ProgressService struct {
	Repo           repository.ProgressRepository
	Configurations repository.ConfigurationRepository
	Clock          func() time.Time
}

func NewProgressService(repo repository.ProgressRepository, configurations repository.ConfigurationRepository) *ProgressService {
	return &ProgressService{Repo: repo, Configurations: configurations, Clock: now}
}

// Upsert 以 "{user_id}_{configuration_id}" 为 key 保存进度并返回 key。
// 已存在时整体覆盖并将 last_played 刷新为当前时间；新建时 last_played 为空才取当前时间。
// 并发写入以最后一次为准。
//
// 配置必须存在。生成的配置 ID 不含 "_"，因此 key 只能拆分出唯一的 (用户, 配置) 组合
func (s *ProgressService) Upsert(ctx context.Context, progress *model.GameProgress) (string, error) {
	if progress.UserID == "" || progress.ConfigurationID == "" {
		return "", util.InvalidArgument("user_id and configuration_id are required")
	}
	if _, err := s.Configurations.FindByID(ctx, progress.ConfigurationID); err != nil {
		return "", err
	}

	_, err := s.Repo.Find(ctx, progress.UserID, progress.ConfigurationID)
	switch {
	case err == nil:
		progress.LastPlayed = s.Clock()
	case errors.Is(err, util.ErrNotFound):
		if progress.LastPlayed.IsZero() {
			progress.LastPlayed = s.Clock()
		}
	default:
		return "", err
	}

	if err := s.Repo.Save(ctx, progress); err != nil {
		return "", err
	}
	return progress.Key(), nil
}

func (s *ProgressService) Get(ctx context.Context, userID, configurationID string) (*model.GameProgress, error) {
	return s.Repo.Find(ctx, userID, configurationID)
}

func (s *ProgressService) ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *ProgressService) ListAll(ctx context.Context) ([]model.GameProgress, error) {
	return s.Repo.ListAll(ctx)
}
