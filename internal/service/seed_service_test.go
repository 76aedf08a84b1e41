package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSeedDefaultsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeder := NewSeedService(f.configs)

	n, err := seeder.Seed(ctx, "")
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Seed() created %d, want 1", n)
	}

	list, err := f.configs.List(ctx, "anyone", true)
	if err != nil || len(list) != 1 {
		t.Fatalf("public configurations = %v, %v", list, err)
	}
	cfg := list[0]
	if cfg.CreatedBy != SystemUserID || cfg.StartingLevel != "easy" || len(cfg.DifficultyLevels) != 3 {
		t.Errorf("seeded = %+v", cfg)
	}
	if _, ok := cfg.Level(cfg.StartingLevel); !ok {
		t.Error("seeded starting level is undefined")
	}
	if _, err := f.sessions.Create(ctx, cfg.ID, "kid"); err != nil {
		t.Errorf("session on seeded configuration: %v", err)
	}

	n, err = seeder.Seed(ctx, "")
	if err != nil || n != 0 {
		t.Errorf("second Seed() = %d, %v; want 0, nil", n, err)
	}
}

func TestSeedFromFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := `configurations:
  - title: Custom
    starting_level: one
    difficulty_levels:
      - level_name: one
        target_min: 1
        target_max: 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := NewSeedService(f.configs).Seed(context.Background(), path)
	if err != nil || n != 1 {
		t.Fatalf("Seed(file) = %d, %v", n, err)
	}
	list, _ := f.configs.List(context.Background(), SystemUserID, false)
	if len(list) != 1 || list[0].Title != "Custom" || !list[0].DifficultyLevels[0].HintsAvailable {
		t.Errorf("seeded = %+v", list)
	}
}

func TestSeedRejectsInvalidFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("configurations:\n  - title: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSeedService(f.configs).Seed(context.Background(), path); err == nil {
		t.Fatal("Seed() error = nil, want validation failure")
	}
	if _, err := NewSeedService(f.configs).Seed(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Seed(missing file) error = nil")
	}
}
