package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"balance_scale_backend/internal/util"
)

func TestCreateConfigurationDefaults(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.configs.Create(context.Background(), "educator", singleTarget())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cfg.ID == "" || cfg.CreatedBy != "educator" {
		t.Errorf("Create() = %+v", cfg)
	}
	if !cfg.CreatedAt.Equal(cfg.UpdatedAt) || cfg.CreatedAt.IsZero() {
		t.Errorf("timestamps = %v / %v", cfg.CreatedAt, cfg.UpdatedAt)
	}
	if cfg.FeedbackSensitivity != 1.0 {
		t.Errorf("FeedbackSensitivity = %v, want 1.0", cfg.FeedbackSensitivity)
	}
	if !cfg.DifficultyLevels[0].HintsAvailable {
		t.Error("HintsAvailable should default to true")
	}
	if cfg.ProgressionCriteria == nil || len(cfg.ProgressionCriteria) != 0 {
		t.Errorf("ProgressionCriteria = %v, want empty map", cfg.ProgressionCriteria)
	}
	if cfg.Public {
		t.Error("Public should default to false")
	}

	stored, err := f.configs.Get(context.Background(), cfg.ID)
	if err != nil || stored.Title != "Fives" {
		t.Errorf("Get() = %+v, %v", stored, err)
	}
}

func TestCreateConfigurationKeepsExplicitHints(t *testing.T) {
	f := newFixture(t)
	in := singleTarget()
	in.DifficultyLevels[0].HintsAvailable = boolPtr(false)
	cfg, err := f.configs.Create(context.Background(), "educator", in)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DifficultyLevels[0].HintsAvailable {
		t.Error("explicit hints_available=false was overridden")
	}
}

func TestConfigurationValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *GameConfigurationInput)
	}{
		{"empty title", func(in *GameConfigurationInput) { in.Title = "  " }},
		{"no levels", func(in *GameConfigurationInput) { in.DifficultyLevels = nil }},
		{"unnamed level", func(in *GameConfigurationInput) { in.DifficultyLevels[0].LevelName = "" }},
		{"duplicate level", func(in *GameConfigurationInput) {
			in.DifficultyLevels = append(in.DifficultyLevels, in.DifficultyLevels[0])
		}},
		{"inverted target range", func(in *GameConfigurationInput) {
			in.DifficultyLevels[0].TargetMin, in.DifficultyLevels[0].TargetMax = 9, 3
		}},
		{"inverted addend range", func(in *GameConfigurationInput) {
			in.DifficultyLevels[0].Addends[0] = AddendInput{MinValue: 5, MaxValue: 1}
		}},
		{"sensitivity too low", func(in *GameConfigurationInput) { in.FeedbackSensitivity = 0.01 }},
		{"sensitivity too high", func(in *GameConfigurationInput) { in.FeedbackSensitivity = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := singleTarget()
			tt.mutate(in)
			if _, err := f.configs.Create(context.Background(), "educator", in); !errors.Is(err, util.ErrInvalidArgument) {
				t.Errorf("Create() error = %v, want invalid argument", err)
			}
		})
	}
}

func TestUnknownStartingLevelIsAcceptedOnWrite(t *testing.T) {
	f := newFixture(t)
	in := singleTarget()
	in.StartingLevel = "Expert"
	if _, err := f.configs.Create(context.Background(), "educator", in); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
}

func TestUpdateConfigurationKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.configs.Create(ctx, "educator", singleTarget())
	if err != nil {
		t.Fatal(err)
	}

	in := singleTarget()
	in.Title = "Renamed"
	in.Public = true
	updated, err := f.configs.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != created.ID || updated.CreatedBy != "educator" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("identity changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
	}

	stored, _ := f.configs.Get(ctx, created.ID)
	if stored.Title != "Renamed" || !stored.Public {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := f.configs.Update(ctx, "missing", singleTarget()); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want not found", err)
	}
}

func TestDeleteConfiguration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createConfig(t, "educator", singleTarget())

	if err := f.configs.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.configs.Get(ctx, id); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if err := f.configs.Delete(ctx, id); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Delete() twice error = %v", err)
	}
}

func TestListConfigurationsDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	public := func(title string) *GameConfigurationInput {
		in := singleTarget()
		in.Title = title
		in.Public = true
		return in
	}
	private := func(title string) *GameConfigurationInput {
		in := singleTarget()
		in.Title = title
		return in
	}

	f.createConfig(t, "alice", public("alice public"))
	f.createConfig(t, "alice", private("alice private"))
	f.createConfig(t, "bob", public("bob public"))
	f.createConfig(t, "bob", private("bob private"))

	tests := []struct {
		user       string
		publicOnly bool
		want       []string
	}{
		{"alice", false, []string{"alice private", "alice public", "bob public"}},
		{"alice", true, []string{"alice public", "bob public"}},
		{"carol", false, []string{"alice public", "bob public"}},
	}
	for _, tt := range tests {
		got, err := f.configs.List(ctx, tt.user, tt.publicOnly)
		if err != nil {
			t.Fatalf("List(%s, %v) error = %v", tt.user, tt.publicOnly, err)
		}
		titles := make([]string, len(got))
		for i, c := range got {
			titles[i] = c.Title
		}
		sort.Strings(titles)
		if len(titles) != len(tt.want) {
			t.Errorf("List(%s, %v) = %v, want %v", tt.user, tt.publicOnly, titles, tt.want)
			continue
		}
		for i := range titles {
			if titles[i] != tt.want[i] {
				t.Errorf("List(%s, %v) = %v, want %v", tt.user, tt.publicOnly, titles, tt.want)
				break
			}
		}
	}
}
