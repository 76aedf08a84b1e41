package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/repository/memory"
)

var testEpoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// fakeClock 每读取一次前进一秒
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store    *repository.Store
	clock    *fakeClock
	configs  *ConfigurationService
	sessions *SessionService
	progress *ProgressService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{t: testEpoch}

	configs := NewConfigurationService(store.Configurations)
	configs.Clock = clock.Now
	sessions := NewSessionService(store, NewTargetGeneratorWithSource(rand.NewPCG(3, 4)))
	sessions.Clock = clock.Now
	progress := NewProgressService(store.Progress, store.Configurations)
	progress.Clock = clock.Now

	return &fixture{
		store:    store,
		clock:    clock,
		configs:  configs,
		sessions: sessions,
		progress: progress,
	}
}

func boolPtr(b bool) *bool { return &b }

// singleTarget 只有一个难度且目标数固定为 5 的配置
func singleTarget() *GameConfigurationInput {
	return &GameConfigurationInput{
		Title:         "Fives",
		StartingLevel: "Easy",
		DifficultyLevels: []DifficultyLevelInput{{
			LevelName: "Easy",
			TargetMin: 5,
			TargetMax: 5,
			Addends:   []AddendInput{{MinValue: 1, MaxValue: 4}, {MinValue: 1, MaxValue: 4}},
		}},
	}
}

func (f *fixture) createConfig(t *testing.T, owner string, in *GameConfigurationInput) string {
	t.Helper()
	cfg, err := f.configs.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("Create configuration error = %v", err)
	}
	return cfg.ID
}
