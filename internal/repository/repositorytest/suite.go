// Package repositorytest 各存储后端共同遵守的行为测试，后端包在自己的测试中调用 Run
package repositorytest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
)

// Factory 返回一个空存储，每个子测试调用一次
type Factory func(t *testing.T) *repository.Store

// Base 所有测试数据的基准时间
var Base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func Run(t *testing.T, newStore Factory) {
	t.Run("configurations", func(t *testing.T) { testConfigurations(t, newStore(t)) })
	t.Run("configuration listing", func(t *testing.T) { testConfigurationListing(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("session guard", func(t *testing.T) { testSessionGuard(t, newStore(t)) })
	t.Run("concurrent correct answers", func(t *testing.T) { testConcurrentSolve(t, newStore(t)) })
	t.Run("attempts", func(t *testing.T) { testAttempts(t, newStore(t)) })
	t.Run("record attempt", func(t *testing.T) { testRecordAttempt(t, newStore(t)) })
	t.Run("progress", func(t *testing.T) { testProgress(t, newStore(t)) })
	t.Run("progress key collision", func(t *testing.T) { testProgressKeyCollision(t, newStore(t)) })
}

func Configuration(id, owner string, public bool, created time.Time) *model.GameConfiguration {
	desc := "weigh both pans"
	limit := 30
	return &model.GameConfiguration{
		ID:          id,
		Title:       "Config " + id,
		Description: &desc,
		CreatedBy:   owner,
		CreatedAt:   created,
		UpdatedAt:   created,
		DifficultyLevels: []model.DifficultyLevel{
			{
				LevelName: "Easy",
				TargetMin: 5,
				TargetMax: 10,
				Addends: []model.Addend{
					{MinValue: 1, MaxValue: 5},
					{MinValue: 1, MaxValue: 5},
				},
				HintsAvailable: true,
			},
			{
				LevelName:      "Hard",
				TargetMin:      10,
				TargetMax:      50,
				Addends:        []model.Addend{{MinValue: 1, MaxValue: 25}, {MinValue: 1, MaxValue: 25}},
				TimeLimit:      &limit,
				HintsAvailable: false,
			},
		},
		StartingLevel:       "Easy",
		Public:              public,
		FeedbackSensitivity: 1.5,
		ProgressionCriteria: map[string]interface{}{"advance_after": "3"},
	}
}

func testConfigurations(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Configurations

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("FindByID(missing) error = %v, want not found", err)
	}

	cfg := Configuration("cfg-1", "educator", true, Base)
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByID(ctx, "cfg-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Title != cfg.Title || got.CreatedBy != "educator" || !got.Public || got.StartingLevel != "Easy" {
		t.Errorf("FindByID() = %+v", got)
	}
	if got.Description == nil || *got.Description != "weigh both pans" {
		t.Errorf("Description = %v", got.Description)
	}
	if got.FeedbackSensitivity != 1.5 {
		t.Errorf("FeedbackSensitivity = %v, want 1.5", got.FeedbackSensitivity)
	}
	if len(got.DifficultyLevels) != 2 {
		t.Fatalf("DifficultyLevels = %+v", got.DifficultyLevels)
	}
	hard := got.DifficultyLevels[1]
	if hard.LevelName != "Hard" || hard.TargetMin != 10 || hard.TargetMax != 50 || hard.HintsAvailable {
		t.Errorf("Hard level = %+v", hard)
	}
	if hard.TimeLimit == nil || *hard.TimeLimit != 30 {
		t.Errorf("Hard TimeLimit = %v", hard.TimeLimit)
	}
	if got.DifficultyLevels[0].TimeLimit != nil {
		t.Errorf("Easy TimeLimit = %v, want nil", *got.DifficultyLevels[0].TimeLimit)
	}
	if len(got.DifficultyLevels[0].Addends) != 2 || got.DifficultyLevels[0].Addends[1].MaxValue != 5 {
		t.Errorf("Easy addends = %+v", got.DifficultyLevels[0].Addends)
	}
	if got.ProgressionCriteria["advance_after"] != "3" {
		t.Errorf("ProgressionCriteria = %v", got.ProgressionCriteria)
	}
	if !got.CreatedAt.Equal(Base) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, Base)
	}

	got.Title = "Renamed"
	got.Public = false
	got.UpdatedAt = Base.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, err := repo.FindByID(ctx, "cfg-1")
	if err != nil {
		t.Fatalf("FindByID() after update error = %v", err)
	}
	if again.Title != "Renamed" || again.Public || !again.UpdatedAt.Equal(Base.Add(time.Hour)) {
		t.Errorf("after Update = %+v", again)
	}

	if err := repo.Update(ctx, Configuration("ghost", "x", false, Base)); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Update(ghost) error = %v, want not found", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}

	if err := repo.Delete(ctx, "cfg-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "cfg-1"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
	if _, err := repo.FindByID(ctx, "cfg-1"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("FindByID() after delete error = %v", err)
	}
}

func testConfigurationListing(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Configurations

	fixtures := []*model.GameConfiguration{
		Configuration("a", "alice", true, Base.Add(3*time.Minute)),
		Configuration("b", "alice", false, Base.Add(1*time.Minute)),
		Configuration("c", "bob", true, Base.Add(2*time.Minute)),
		Configuration("d", "bob", false, Base.Add(4*time.Minute)),
	}
	for _, c := range fixtures {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create(%s) error = %v", c.ID, err)
		}
	}

	public, err := repo.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic() error = %v", err)
	}
	assertIDs(t, "ListPublic", configIDs(public), []string{"c", "a"})

	mine, err := repo.ListByCreator(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	assertIDs(t, "ListByCreator(alice)", configIDs(mine), []string{"b", "a"})

	none, err := repo.ListByCreator(ctx, "carol")
	if err != nil || len(none) != 0 {
		t.Errorf("ListByCreator(carol) = %v, %v", none, err)
	}
}

func Session(id, user string, target int, started time.Time) *model.GameSession {
	return &model.GameSession{
		ID:              id,
		UserID:          user,
		ConfigurationID: "cfg-1",
		DifficultyLevel: "Easy",
		TargetNumber:    target,
		StartedAt:       started,
	}
}

func testSessions(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Sessions

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("FindByID(missing) error = %v", err)
	}

	for i, id := range []string{"s1", "s2", "s3"} {
		if err := repo.Create(ctx, Session(id, "kid", 7, Base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}
	if err := repo.Create(ctx, Session("other", "someone", 7, Base)); err != nil {
		t.Fatalf("Create(other) error = %v", err)
	}

	got, err := repo.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.TargetNumber != 7 || got.AnswerCount != 0 || got.Completed || got.Success != nil {
		t.Errorf("new session = %+v", got)
	}
	if !got.StartedAt.Equal(Base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, Base)
	}

	list, err := repo.ListByUser(ctx, "kid", 2)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	assertIDs(t, "ListByUser(kid, 2)", sessionIDs(list), []string{"s3", "s2"})

	all, err := repo.ListByUser(ctx, "kid", 0)
	if err != nil || len(all) != 3 {
		t.Errorf("ListByUser(kid, 0) = %d sessions, %v", len(all), err)
	}
}

func testSessionGuard(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Sessions

	if _, err := repo.RecordAnswer(ctx, "missing", false); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("RecordAnswer(missing) error = %v", err)
	}
	if _, err := repo.Close(ctx, "missing", true); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Close(missing) error = %v", err)
	}

	if err := repo.Create(ctx, Session("s1", "kid", 5, Base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	s, err := repo.RecordAnswer(ctx, "s1", false)
	if err != nil {
		t.Fatalf("RecordAnswer(wrong) error = %v", err)
	}
	if s.AnswerCount != 1 || s.Completed || s.Success != nil {
		t.Errorf("after wrong answer = %+v", s)
	}

	s, err = repo.RecordAnswer(ctx, "s1", true)
	if err != nil {
		t.Fatalf("RecordAnswer(right) error = %v", err)
	}
	if s.AnswerCount != 2 || !s.Completed || s.Success == nil || !*s.Success {
		t.Errorf("after right answer = %+v", s)
	}

	if _, err := repo.RecordAnswer(ctx, "s1", false); !errors.Is(err, util.ErrInvalidState) {
		t.Errorf("RecordAnswer(closed) error = %v, want invalid state", err)
	}
	if _, err := repo.Close(ctx, "s1", false); !errors.Is(err, util.ErrInvalidState) {
		t.Errorf("Close(closed) error = %v, want invalid state", err)
	}

	stored, err := repo.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.AnswerCount != 2 || !stored.Completed || !*stored.Success {
		t.Errorf("closed session mutated: %+v", stored)
	}

	if err := repo.Create(ctx, Session("s2", "kid", 5, Base)); err != nil {
		t.Fatalf("Create(s2) error = %v", err)
	}
	s, err = repo.Close(ctx, "s2", false)
	if err != nil {
		t.Fatalf("Close(s2) error = %v", err)
	}
	if !s.Completed || s.Success == nil || *s.Success || s.AnswerCount != 0 {
		t.Errorf("after Close(false) = %+v", s)
	}
}

func testConcurrentSolve(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Sessions
	if err := repo.Create(ctx, Session("race", "kid", 5, Base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		closed  int
		other   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordAnswer(ctx, "race", true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, util.ErrSessionCompleted):
				closed++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if winners != 1 || closed != workers-1 {
		t.Errorf("winners = %d, rejected = %d; want 1 and %d", winners, closed, workers-1)
	}
	s, err := repo.FindByID(ctx, "race")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if s.AnswerCount != 1 {
		t.Errorf("AnswerCount = %d, want 1", s.AnswerCount)
	}
}

func Attempt(id, session, user string, addends []int, target int, at time.Time) *model.ProblemAttempt {
	sum := 0
	for _, a := range addends {
		sum += a
	}
	return &model.ProblemAttempt{
		ID:        id,
		SessionID: session,
		UserID:    user,
		Addends:   addends,
		Sum:       sum,
		Target:    target,
		Correct:   sum == target,
		TimeTaken: 2.5,
		Timestamp: at,
	}
}

func testAttempts(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Attempts

	fixtures := []*model.ProblemAttempt{
		Attempt("a2", "s1", "kid", []int{2, 2}, 5, Base.Add(2*time.Second)),
		Attempt("a1", "s1", "kid", []int{1, 1}, 5, Base.Add(1*time.Second)),
		Attempt("a3", "s1", "kid", []int{2, 3}, 5, Base.Add(3*time.Second)),
		Attempt("b1", "s2", "kid", []int{4, 4}, 8, Base.Add(4*time.Second)),
		Attempt("c1", "s3", "other", []int{9}, 9, Base),
	}
	for _, a := range fixtures {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create(%s) error = %v", a.ID, err)
		}
	}

	bySession, err := repo.ListBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	assertIDs(t, "ListBySession(s1)", attemptIDs(bySession), []string{"a1", "a2", "a3"})
	last := bySession[2]
	if last.Sum != 5 || !last.Correct || last.Target != 5 || last.TimeTaken != 2.5 {
		t.Errorf("attempt a3 = %+v", last)
	}
	if len(last.Addends) != 2 || last.Addends[0] != 2 || last.Addends[1] != 3 {
		t.Errorf("attempt a3 addends = %v", last.Addends)
	}

	byUser, err := repo.ListByUser(ctx, "kid", 3)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	assertIDs(t, "ListByUser(kid, 3)", attemptIDs(byUser), []string{"b1", "a3", "a2"})

	empty, err := repo.ListBySession(ctx, "nope")
	if err != nil || len(empty) != 0 {
		t.Errorf("ListBySession(nope) = %v, %v", empty, err)
	}
}

func testRecordAttempt(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	miss := Attempt("m1", "missing", "kid", []int{5}, 5, Base)
	if _, err := store.Sessions.RecordAttempt(ctx, miss); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("RecordAttempt(missing session) error = %v, want not found", err)
	}

	if err := store.Sessions.Create(ctx, Session("s1", "kid", 5, Base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s, err := store.Sessions.RecordAttempt(ctx, Attempt("a1", "s1", "kid", []int{1, 1}, 5, Base.Add(time.Second)))
	if err != nil {
		t.Fatalf("RecordAttempt(wrong) error = %v", err)
	}
	if s.AnswerCount != 1 || s.Completed {
		t.Errorf("after wrong attempt = %+v", s)
	}
	s, err = store.Sessions.RecordAttempt(ctx, Attempt("a2", "s1", "kid", []int{2, 3}, 5, Base.Add(2*time.Second)))
	if err != nil {
		t.Fatalf("RecordAttempt(right) error = %v", err)
	}
	if s.AnswerCount != 2 || !s.Completed || s.Success == nil || !*s.Success {
		t.Errorf("after right attempt = %+v", s)
	}

	late := Attempt("a3", "s1", "kid", []int{2, 3}, 5, Base.Add(3*time.Second))
	if _, err := store.Sessions.RecordAttempt(ctx, late); !errors.Is(err, util.ErrSessionCompleted) {
		t.Errorf("RecordAttempt(closed) error = %v, want session completed", err)
	}

	stored, err := store.Attempts.ListBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	assertIDs(t, "ListBySession(s1)", attemptIDs(stored), []string{"a1", "a2"})
	if byUser, _ := store.Attempts.ListByUser(ctx, "kid", 0); len(byUser) != 2 {
		t.Errorf("ListByUser(kid) = %d attempts, want 2", len(byUser))
	}
}

func testProgress(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Progress

	if _, err := repo.Find(ctx, "kid", "cfg-1"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("Find(missing) error = %v", err)
	}

	p := &model.GameProgress{
		UserID:            "kid",
		ConfigurationID:   "cfg-1",
		CurrentLevel:      "Easy",
		CompletedProblems: 3,
		CorrectAnswers:    2,
		LastPlayed:        Base,
		TimeSpent:         40,
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	updated := *p
	updated.CompletedProblems = 4
	updated.CurrentLevel = "Hard"
	updated.LastPlayed = Base.Add(time.Hour)
	if err := repo.Save(ctx, &updated); err != nil {
		t.Fatalf("Save(overwrite) error = %v", err)
	}

	got, err := repo.Find(ctx, "kid", "cfg-1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.CompletedProblems != 4 || got.CorrectAnswers != 2 || got.CurrentLevel != "Hard" || got.TimeSpent != 40 {
		t.Errorf("Find() = %+v", got)
	}
	if !got.LastPlayed.Equal(Base.Add(time.Hour)) {
		t.Errorf("LastPlayed = %v", got.LastPlayed)
	}

	other := &model.GameProgress{UserID: "kid", ConfigurationID: "cfg-2", CurrentLevel: "Easy", LastPlayed: Base.Add(2 * time.Hour)}
	third := &model.GameProgress{UserID: "someone", ConfigurationID: "cfg-1", CurrentLevel: "Easy", LastPlayed: Base}
	for _, x := range []*model.GameProgress{other, third} {
		if err := repo.Save(ctx, x); err != nil {
			t.Fatalf("Save(%s) error = %v", x.Key(), err)
		}
	}

	mine, err := repo.ListByUser(ctx, "kid")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	assertIDs(t, "ListByUser(kid)", progressKeys(mine), []string{"kid_cfg-2", "kid_cfg-1"})

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAll() returned %d records, want 3", len(all))
	}
}

// testProgressKeyCollision 两组 (用户, 配置) 拼出相同的组合主键，
// 后写入者占有该 key，按先写入的组合查询应查不到
func testProgressKeyCollision(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	repo := store.Progress

	first := &model.GameProgress{UserID: "a_b", ConfigurationID: "c", CorrectAnswers: 7, LastPlayed: Base}
	second := &model.GameProgress{UserID: "a", ConfigurationID: "b_c", LastPlayed: Base.Add(time.Minute)}
	for _, p := range []*model.GameProgress{first, second} {
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("Save(%s/%s) error = %v", p.UserID, p.ConfigurationID, err)
		}
	}

	if got, err := repo.Find(ctx, "a_b", "c"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Find(a_b, c) = %+v, %v; want not found", got, err)
	}
	got, err := repo.Find(ctx, "a", "b_c")
	if err != nil {
		t.Fatalf("Find(a, b_c) error = %v", err)
	}
	if got.UserID != "a" || got.ConfigurationID != "b_c" {
		t.Errorf("Find(a, b_c) = %+v", got)
	}

	list, err := repo.ListByUser(ctx, "a_b")
	if err != nil {
		t.Fatalf("ListByUser(a_b) error = %v", err)
	}
	for _, p := range list {
		if p.UserID != "a_b" {
			t.Errorf("ListByUser(a_b) returned %+v", p)
		}
	}
}

func assertIDs(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", what, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", what, got, want)
			return
		}
	}
}

func configIDs(in []model.GameConfiguration) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = c.ID
	}
	return out
}

func sessionIDs(in []model.GameSession) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.ID
	}
	return out
}

func attemptIDs(in []model.ProblemAttempt) []string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = a.ID
	}
	return out
}

func progressKeys(in []model.GameProgress) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = p.Key()
	}
	return out
}
