package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/util"
)

func TestExportUserAttemptsToLocalStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := NewStorageService(&config.ObjectStorageConfig{Type: util.StorageLocal, LocalPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	exports := NewExportService(f.sessions, storage)
	exports.Clock = f.clock.Now

	s, err := f.sessions.Create(ctx, f.createConfig(t, "educator", singleTarget()), "kid/../x")
	if err != nil {
		t.Fatal(err)
	}
	for _, addends := range [][]int{{1, 1}, {2, 3}} {
		if _, err := f.sessions.RecordAttempt(ctx, s.ID, "kid/../x", AttemptInput{Addends: addends}); err != nil {
			t.Fatal(err)
		}
	}

	res, err := exports.ExportUserAttempts(ctx, "kid/../x")
	if err != nil {
		t.Fatalf("ExportUserAttempts() error = %v", err)
	}
	if res.Count != 2 {
		t.Errorf("Count = %d, want 2", res.Count)
	}
	if filepath.Dir(filepath.FromSlash(res.Key)) != filepath.Join("attempts", userPrefix("kid/../x")) {
		t.Errorf("Key = %q escapes its prefix", res.Key)
	}
	if res.URL != "/api/admin/exports/"+res.Key {
		t.Errorf("URL = %q", res.URL)
	}

	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	var doc AttemptExport
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.UserID != "kid/../x" || len(doc.Attempts) != 2 || !doc.Attempts[0].Correct {
		t.Errorf("export = %+v", doc)
	}
}

func TestNewStorageServiceRejectsUnknownType(t *testing.T) {
	if _, err := NewStorageService(&config.ObjectStorageConfig{Type: "ftp"}); err == nil {
		t.Fatal("NewStorageService(ftp) error = nil")
	}
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"kid-1_a": "kid-1_a",
		"../etc":  "___etc",
		"":        "_",
		"a b":     "a_b",
	}
	for in, want := range tests {
		if got := safeName(in); got != want {
			t.Errorf("safeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalObjectStoreRejectsEscapingKeys(t *testing.T) {
	store := &LocalObjectStore{Root: t.TempDir()}
	for _, key := range []string{"../outside.json", "/abs.json", "a/../../b.json"} {
		err := store.Put(context.Background(), key, []byte("{}"), util.MimeJSON)
		if !errors.Is(err, util.ErrInvalidArgument) {
			t.Errorf("Put(%q) error = %v, want invalid argument", key, err)
		}
	}
	if err := store.Put(context.Background(), "attempts/kid/1.json", []byte("{}"), util.MimeJSON); err != nil {
		t.Errorf("Put() nested key error = %v", err)
	}
}

func TestUserPrefixSeparatesLookalikeIDs(t *testing.T) {
	a, b := userPrefix("a.b"), userPrefix("a_b")
	if a == b {
		t.Fatalf("userPrefix(a.b) = userPrefix(a_b) = %q", a)
	}
	if !strings.HasPrefix(a, "a_b-") || !strings.HasPrefix(b, "a_b-") {
		t.Errorf("prefixes = %q, %q", a, b)
	}
	if userPrefix("a.b") != a {
		t.Error("userPrefix is not stable")
	}
}

func TestExportsInTheSameSecondDoNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := NewStorageService(&config.ObjectStorageConfig{Type: util.StorageLocal, LocalPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	exports := NewExportService(f.sessions, storage)
	exports.Clock = func() time.Time { return testEpoch }

	first, err := exports.ExportUserAttempts(ctx, "kid")
	if err != nil {
		t.Fatal(err)
	}
	second, err := exports.ExportUserAttempts(ctx, "kid")
	if err != nil {
		t.Fatal(err)
	}
	if first.Key == second.Key {
		t.Fatalf("both exports wrote %q", first.Key)
	}
	for _, key := range []string{first.Key, second.Key} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); err != nil {
			t.Errorf("export %q missing: %v", key, err)
		}
	}
}
