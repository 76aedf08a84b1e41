package gormstore

import (
	"time"

	"balance_scale_backend/internal/model"

	"gorm.io/datatypes"
)

// 时间字段由服务层维护，所有表均关闭 gorm 的自动时间戳

type GameConfigurationRow struct {
	ID                  string                                     `gorm:"primaryKey;type:varchar(36)"`
	Title               string                                     `gorm:"size:255;not null"`
	Description         *string                                    `gorm:"type:text"`
	CreatedBy           string                                     `gorm:"index;size:128"`
	CreatedAt           time.Time                                  `gorm:"index;autoCreateTime:false"`
	UpdatedAt           time.Time                                  `gorm:"autoUpdateTime:false"`
	DifficultyLevels    datatypes.JSONSlice[model.DifficultyLevel] `gorm:"not null"`
	StartingLevel       string                                     `gorm:"size:255"`
	Public              bool                                       `gorm:"index;default:false"`
	FeedbackSensitivity float64                                    `gorm:"default:1"`
	ProgressionCriteria datatypes.JSONMap
}

func (GameConfigurationRow) TableName() string {
	return "game_configurations"
}

type GameSessionRow struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	UserID          string    `gorm:"index;size:128"`
	ConfigurationID string    `gorm:"index;type:varchar(36)"`
	DifficultyLevel string    `gorm:"size:255"`
	TargetNumber    int       `gorm:"not null"`
	AnswerCount     int       `gorm:"not null;default:0"`
	StartedAt       time.Time `gorm:"index;autoCreateTime:false"`
	Completed       bool      `gorm:"not null;default:false"`
	Success         *bool
}

func (GameSessionRow) TableName() string {
	return "game_sessions"
}

type ProblemAttemptRow struct {
	ID        string                   `gorm:"primaryKey;type:varchar(36)"`
	SessionID string                   `gorm:"index;type:varchar(36)"`
	UserID    string                   `gorm:"index;size:128"`
	Addends   datatypes.JSONSlice[int] `gorm:"not null"`
	Sum       int
	Target    int
	Correct   bool
	TimeTaken float64
	Timestamp time.Time `gorm:"index"`
}

func (ProblemAttemptRow) TableName() string {
	return "problem_attempts"
}

// GameProgressRow 以 "{user_id}_{configuration_id}" 为主键
type GameProgressRow struct {
	ID                string `gorm:"primaryKey;size:255"`
	UserID            string `gorm:"index;size:128"`
	ConfigurationID   string `gorm:"index;type:varchar(36)"`
	CurrentLevel      string `gorm:"size:255"`
	CompletedProblems int
	CorrectAnswers    int
	LastPlayed        time.Time `gorm:"index"`
	TimeSpent         int
}

func (GameProgressRow) TableName() string {
	return "game_progress"
}

// Models 需要自动迁移的表
func Models() []interface{} {
	return []interface{}{
		&GameConfigurationRow{},
		&GameSessionRow{},
		&ProblemAttemptRow{},
		&GameProgressRow{},
	}
}

func configurationRow(c *model.GameConfiguration) *GameConfigurationRow {
	return &GameConfigurationRow{
		ID:                  c.ID,
		Title:               c.Title,
		Description:         c.Description,
		CreatedBy:           c.CreatedBy,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		DifficultyLevels:    datatypes.JSONSlice[model.DifficultyLevel](c.DifficultyLevels),
		StartingLevel:       c.StartingLevel,
		Public:              c.Public,
		FeedbackSensitivity: c.FeedbackSensitivity,
		ProgressionCriteria: datatypes.JSONMap(c.ProgressionCriteria),
	}
}

func (r *GameConfigurationRow) toModel() model.GameConfiguration {
	criteria := map[string]interface{}(r.ProgressionCriteria)
	if criteria == nil {
		criteria = map[string]interface{}{}
	}
	return model.GameConfiguration{
		ID:                  r.ID,
		Title:               r.Title,
		Description:         r.Description,
		CreatedBy:           r.CreatedBy,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		DifficultyLevels:    []model.DifficultyLevel(r.DifficultyLevels),
		StartingLevel:       r.StartingLevel,
		Public:              r.Public,
		FeedbackSensitivity: r.FeedbackSensitivity,
		ProgressionCriteria: criteria,
	}
}

func sessionRow(s *model.GameSession) *GameSessionRow {
	return &GameSessionRow{
		ID:              s.ID,
		UserID:          s.UserID,
		ConfigurationID: s.ConfigurationID,
		DifficultyLevel: s.DifficultyLevel,
		TargetNumber:    s.TargetNumber,
		AnswerCount:     s.AnswerCount,
		StartedAt:       s.StartedAt,
		Completed:       s.Completed,
		Success:         s.Success,
	}
}

func (r *GameSessionRow) toModel() model.GameSession {
	return model.GameSession{
		ID:              r.ID,
		UserID:          r.UserID,
		ConfigurationID: r.ConfigurationID,
		DifficultyLevel: r.DifficultyLevel,
		TargetNumber:    r.TargetNumber,
		AnswerCount:     r.AnswerCount,
		StartedAt:       r.StartedAt,
		Completed:       r.Completed,
		Success:         r.Success,
	}
}

func attemptRow(a *model.ProblemAttempt) *ProblemAttemptRow {
	return &ProblemAttemptRow{
		ID:        a.ID,
		SessionID: a.SessionID,
		UserID:    a.UserID,
		Addends:   datatypes.JSONSlice[int](a.Addends),
		Sum:       a.Sum,
		Target:    a.Target,
		Correct:   a.Correct,
		TimeTaken: a.TimeTaken,
		Timestamp: a.Timestamp,
	}
}

func (r *ProblemAttemptRow) toModel() model.ProblemAttempt {
	return model.ProblemAttempt{
		ID:        r.ID,
		SessionID: r.SessionID,
		UserID:    r.UserID,
		Addends:   []int(r.Addends),
		Sum:       r.Sum,
		Target:    r.Target,
		Correct:   r.Correct,
		TimeTaken: r.TimeTaken,
		Timestamp: r.Timestamp,
	}
}

func progressRow(p *model.GameProgress) *GameProgressRow {
	return &GameProgressRow{
		ID:                p.Key(),
		UserID:            p.UserID,
		ConfigurationID:   p.ConfigurationID,
		CurrentLevel:      p.CurrentLevel,
		CompletedProblems: p.CompletedProblems,
		CorrectAnswers:    p.CorrectAnswers,
		LastPlayed:        p.LastPlayed,
		TimeSpent:         p.TimeSpent,
	}
}

func (r *GameProgressRow) toModel() model.GameProgress {
	return model.GameProgress{
		UserID:            r.UserID,
		ConfigurationID:   r.ConfigurationID,
		CurrentLevel:      r.CurrentLevel,
		CompletedProblems: r.CompletedProblems,
		CorrectAnswers:    r.CorrectAnswers,
		LastPlayed:        r.LastPlayed,
		TimeSpent:         r.TimeSpent,
	}
}
