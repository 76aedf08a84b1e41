package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/util"
)

func TestUpsertProgressCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	played := testEpoch.Add(-time.Hour)
	cfgID := f.createConfig(t, "educator", singleTarget())

	key, err := f.progress.Upsert(ctx, &model.GameProgress{
		UserID:            "kid",
		ConfigurationID:   cfgID,
		CurrentLevel:      "Easy",
		CompletedProblems: 2,
		CorrectAnswers:    1,
		LastPlayed:        played,
		TimeSpent:         30,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if key != "kid_"+cfgID {
		t.Errorf("key = %q, want kid_%s", key, cfgID)
	}

	got, err := f.progress.Get(ctx, "kid", cfgID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastPlayed.Equal(played) || got.CompletedProblems != 2 || got.TimeSpent != 30 {
		t.Errorf("stored = %+v", got)
	}
}

func TestUpsertProgressDefaultsLastPlayed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfgID := f.createConfig(t, "educator", singleTarget())
	if _, err := f.progress.Upsert(ctx, &model.GameProgress{UserID: "kid", ConfigurationID: cfgID}); err != nil {
		t.Fatal(err)
	}
	got, _ := f.progress.Get(ctx, "kid", cfgID)
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed left zero on create")
	}
}

func TestUpsertProgressOverwritesAndRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfgID := f.createConfig(t, "educator", singleTarget())
	first := &model.GameProgress{UserID: "kid", ConfigurationID: cfgID, CurrentLevel: "Easy", CompletedProblems: 5, CorrectAnswers: 4}
	if _, err := f.progress.Upsert(ctx, first); err != nil {
		t.Fatal(err)
	}
	before, _ := f.progress.Get(ctx, "kid", cfgID)

	stale := testEpoch.Add(-24 * time.Hour)
	// 覆盖而不是累加
	second := &model.GameProgress{UserID: "kid", ConfigurationID: cfgID, CurrentLevel: "Hard", CompletedProblems: 1, LastPlayed: stale}
	if _, err := f.progress.Upsert(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, _ := f.progress.Get(ctx, "kid", cfgID)
	if got.CurrentLevel != "Hard" || got.CompletedProblems != 1 || got.CorrectAnswers != 0 {
		t.Errorf("after overwrite = %+v", got)
	}
	if !got.LastPlayed.After(before.LastPlayed) {
		t.Errorf("LastPlayed = %v, want refreshed past %v", got.LastPlayed, before.LastPlayed)
	}

	all, _ := f.progress.ListByUser(ctx, "kid")
	if len(all) != 1 {
		t.Errorf("ListByUser() = %d records, want 1", len(all))
	}
}

func TestProgressLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.progress.Get(ctx, "kid", "nope"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
	if _, err := f.progress.Upsert(ctx, &model.GameProgress{UserID: "kid"}); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("Upsert(no configuration) error = %v", err)
	}

	a := f.createConfig(t, "educator", singleTarget())
	b := f.createConfig(t, "educator", singleTarget())
	for _, p := range []*model.GameProgress{
		{UserID: "kid", ConfigurationID: a},
		{UserID: "kid", ConfigurationID: b},
		{UserID: "other", ConfigurationID: a},
	} {
		if _, err := f.progress.Upsert(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	mine, _ := f.progress.ListByUser(ctx, "kid")
	if len(mine) != 2 || mine[0].ConfigurationID != b {
		t.Errorf("ListByUser() = %+v", mine)
	}
	all, _ := f.progress.ListAll(ctx)
	if len(all) != 3 {
		t.Errorf("ListAll() = %d records", len(all))
	}
}

func TestUpsertProgressRequiresConfiguration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.progress.Upsert(ctx, &model.GameProgress{UserID: "kid", ConfigurationID: "ghost"}); !errors.Is(err, util.ErrConfigurationNotFound) {
		t.Errorf("Upsert(unknown configuration) error = %v, want configuration not found", err)
	}
	if all, _ := f.progress.ListAll(ctx); len(all) != 0 {
		t.Errorf("ListAll() = %+v, want nothing stored", all)
	}
}

func TestUpsertProgressKeepsOtherUsersRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfgID := f.createConfig(t, "educator", singleTarget())

	if _, err := f.progress.Upsert(ctx, &model.GameProgress{UserID: "kid_x", ConfigurationID: cfgID, CorrectAnswers: 7}); err != nil {
		t.Fatal(err)
	}
	// "kid" + "_" + "x_<id>" 与上面的记录拼出相同的 key
	_, err := f.progress.Upsert(ctx, &model.GameProgress{UserID: "kid", ConfigurationID: "x_" + cfgID})
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("Upsert(colliding key) error = %v, want not found", err)
	}

	got, err := f.progress.Get(ctx, "kid_x", cfgID)
	if err != nil {
		t.Fatal(err)
	}
	if got.UserID != "kid_x" || got.CorrectAnswers != 7 {
		t.Errorf("Get(kid_x) = %+v", got)
	}
	if mine, _ := f.progress.ListByUser(ctx, "kid_x"); len(mine) != 1 {
		t.Errorf("ListByUser(kid_x) = %+v", mine)
	}
}
