package model

import "time"

type SessionState string

const (
	SessionOpen   SessionState = "open"
	SessionClosed SessionState = "closed"
)

// swagger:model GameSession
type GameSession struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          string    `json:"user_id" bson:"user_id"`
	ConfigurationID string    `json:"configuration_id" bson:"configuration_id"`
	DifficultyLevel string    `json:"difficulty_level" bson:"difficulty_level"`
	TargetNumber    int       `json:"target_number" bson:"target_number"`
	AnswerCount     int       `json:"answer_count" bson:"answer_count"`
	StartedAt       time.Time `json:"started_at" bson:"started_at"`
	Completed       bool      `json:"completed" bson:"completed"`
	Success         *bool     `json:"success" bson:"success"`
}

func (s *GameSession) State() SessionState {
	if s.Completed {
		return SessionClosed
	}
	return SessionOpen
}

// RecordAnswer 在未结束的会话上记录一次作答，与各存储后端的条件更新语义一致
func (s *GameSession) RecordAnswer(solved bool) bool {
	if s.Completed {
		return false
	}
	s.AnswerCount++
	if solved {
		s.close(true)
	}
	return true
}

// Close 结束会话，已结束时返回 false
func (s *GameSession) Close(success bool) bool {
	if s.Completed {
		return false
	}
	s.close(success)
	return true
}

func (s *GameSession) close(success bool) {
	s.Completed = true
	s.Success = &success
}
