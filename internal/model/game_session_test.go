package model

import "testing"

func TestGameSessionRecordAnswer(t *testing.T) {
	s := &GameSession{TargetNumber: 5}

	if !s.RecordAnswer(false) {
		t.Fatal("RecordAnswer(false) on open session = false")
	}
	if s.State() != SessionOpen || s.AnswerCount != 1 || s.Success != nil {
		t.Fatalf("after wrong answer: state=%s count=%d success=%v", s.State(), s.AnswerCount, s.Success)
	}

	if !s.RecordAnswer(true) {
		t.Fatal("RecordAnswer(true) on open session = false")
	}
	if s.State() != SessionClosed || s.AnswerCount != 2 || s.Success == nil || !*s.Success {
		t.Fatalf("after right answer: state=%s count=%d success=%v", s.State(), s.AnswerCount, s.Success)
	}

	if s.RecordAnswer(true) {
		t.Error("RecordAnswer on closed session = true")
	}
	if s.Close(false) {
		t.Error("Close on closed session = true")
	}
	if s.AnswerCount != 2 || !*s.Success {
		t.Errorf("closed session mutated: count=%d success=%v", s.AnswerCount, *s.Success)
	}
}

func TestGameConfigurationLevel(t *testing.T) {
	c := &GameConfiguration{DifficultyLevels: []DifficultyLevel{
		{LevelName: "Easy", TargetMin: 1, TargetMax: 10},
		{LevelName: "Hard", TargetMin: 1, TargetMax: 50},
	}}

	lvl, ok := c.Level("Hard")
	if !ok || lvl.TargetMax != 50 {
		t.Fatalf("Level(Hard) = %+v, %v", lvl, ok)
	}
	if _, ok := c.Level("hard"); ok {
		t.Error("Level lookup should be case sensitive")
	}
}

func TestProgressKey(t *testing.T) {
	p := GameProgress{UserID: "u1", ConfigurationID: "c1"}
	if p.Key() != "u1_c1" {
		t.Errorf("Key() = %q, want u1_c1", p.Key())
	}
}
