package redisstore

import (
	"context"
	"testing"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/repository/repositorytest"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) *repository.Store {
		_, client := newTestClient(t)
		return NewStore(client, "test")
	})
}

func TestKeysArePrefixed(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewStore(client, "balance")
	ctx := context.Background()

	base := repositorytest.Base
	if err := store.Configurations.Create(ctx, repositorytest.Configuration("cfg-1", "educator", true, base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !mr.Exists("balance:config:cfg-1") {
		t.Errorf("keys = %v, want balance:config:cfg-1", mr.Keys())
	}
	members, err := mr.ZMembers("balance:configs:public")
	if err != nil || len(members) != 1 || members[0] != "cfg-1" {
		t.Errorf("public index = %v, %v", members, err)
	}
}

func TestUpdateMovesPublicIndex(t *testing.T) {
	_, client := newTestClient(t)
	store := NewStore(client, "")
	ctx := context.Background()

	base := repositorytest.Base
	cfg := repositorytest.Configuration("cfg-1", "educator", true, base)
	if err := store.Configurations.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	cfg.Public = false
	if err := store.Configurations.Update(ctx, cfg); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	public, err := store.Configurations.ListPublic(ctx)
	if err != nil || len(public) != 0 {
		t.Errorf("ListPublic() after unpublishing = %v, %v", public, err)
	}
	mine, err := store.Configurations.ListByCreator(ctx, "educator")
	if err != nil || len(mine) != 1 {
		t.Errorf("ListByCreator() = %v, %v", mine, err)
	}
}

func TestPing(t *testing.T) {
	_, client := newTestClient(t)
	store := NewStore(client, "balance")
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestProgressRecordsDoNotClobberIndexes(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewStore(client, "balance")
	ctx := context.Background()
	base := repositorytest.Base

	// 没有记录前缀时，"user:a" + "_X" 会与用户 "a_X" 的索引重名
	for _, p := range []*model.GameProgress{
		{UserID: "user:a", ConfigurationID: "X", LastPlayed: base},
		{UserID: "a_X", ConfigurationID: "cfg-1", LastPlayed: base},
		{UserID: "a_X", ConfigurationID: "cfg-2", LastPlayed: base.Add(time.Minute)},
	} {
		if err := store.Progress.Save(ctx, p); err != nil {
			t.Fatalf("Save(%s/%s) error = %v", p.UserID, p.ConfigurationID, err)
		}
	}

	if !mr.Exists("balance:progress:rec:user:a_X") {
		t.Errorf("keys = %v, want balance:progress:rec:user:a_X", mr.Keys())
	}
	mine, err := store.Progress.ListByUser(ctx, "a_X")
	if err != nil {
		t.Fatalf("ListByUser(a_X) error = %v", err)
	}
	if len(mine) != 2 || mine[0].ConfigurationID != "cfg-2" {
		t.Errorf("ListByUser(a_X) = %+v", mine)
	}
	if _, err := store.Progress.Find(ctx, "user:a", "X"); err != nil {
		t.Errorf("Find(user:a, X) error = %v", err)
	}
}
