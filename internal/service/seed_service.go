package service

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"balance_scale_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SystemUserID 预置配置的创建者
const SystemUserID = "system"

//go:embed seed/default_configurations.yaml
var defaultSeed []byte

type seedFile struct {
	Configurations []GameConfigurationInput `yaml:"configurations"`
}

type SeedService struct {
	Configs *ConfigurationService
}

func NewSeedService(configs *ConfigurationService) *SeedService {
	return &SeedService{Configs: configs}
}

// Seed 在存储中没有任何配置时，从 file（为空时使用内置预设）创建配置，返回创建数量
func (s *SeedService) Seed(ctx context.Context, file string) (int, error) {
	count, err := s.Configs.Repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	raw := defaultSeed
	if file != "" {
		raw, err = os.ReadFile(file)
		if err != nil {
			return 0, fmt.Errorf("read seed file: %w", err)
		}
	}

	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i := range doc.Configurations {
		if _, err := s.Configs.Create(ctx, SystemUserID, &doc.Configurations[i]); err != nil {
			return i, fmt.Errorf("seed configuration %q: %w", doc.Configurations[i].Title, err)
		}
	}
	logger.Log.Info("Seeded game configurations", zap.Int("count", len(doc.Configurations)))
	return len(doc.Configurations), nil
}
