package gormstore

import (
	"context"
	"testing"

	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/repository/repositorytest"
	"balance_scale_backend/internal/util"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// 每个 :memory: 连接都是独立的数据库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSQLiteStore(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) *repository.Store {
		return NewStore(openTestDB(t), util.DriverSQLite)
	})
}

func TestRecordAttemptRollsBackOnInsertFailure(t *testing.T) {
	store := NewStore(openTestDB(t), util.DriverSQLite)
	ctx := context.Background()
	base := repositorytest.Base

	if err := store.Sessions.Create(ctx, repositorytest.Session("s1", "kid", 5, base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Attempts.Create(ctx, repositorytest.Attempt("dup", "other", "kid", []int{1}, 1, base)); err != nil {
		t.Fatalf("Attempts.Create() error = %v", err)
	}

	// 主键冲突使会话更新之后的插入失败
	if _, err := store.Sessions.RecordAttempt(ctx, repositorytest.Attempt("dup", "s1", "kid", []int{2, 3}, 5, base)); err == nil {
		t.Fatal("RecordAttempt(duplicate id) error = nil")
	}

	s, err := store.Sessions.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if s.AnswerCount != 0 || s.Completed || s.Success != nil {
		t.Errorf("session changed by failed attempt: %+v", s)
	}
	if got, _ := store.Attempts.ListBySession(ctx, "s1"); len(got) != 0 {
		t.Errorf("ListBySession(s1) = %+v, want none", got)
	}
}
