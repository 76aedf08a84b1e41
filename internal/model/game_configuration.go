package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinFeedbackSensitivity     = 0.1
	MaxFeedbackSensitivity     = 10.0
	DefaultFeedbackSensitivity = 1.0
)

// Addend 加数的取值范围，仅供客户端展示，提交答案时不做校验
type Addend struct {
	MinValue int `json:"min_value" bson:"min_value" yaml:"min_value"`
	MaxValue int `json:"max_value" bson:"max_value" yaml:"max_value"`
}

// DifficultyLevel 难度级别，归属于唯一的 GameConfiguration
type DifficultyLevel struct {
	LevelName      string   `json:"level_name" bson:"level_name" yaml:"level_name"`
	TargetMin      int      `json:"target_min" bson:"target_min" yaml:"target_min"`
	TargetMax      int      `json:"target_max" bson:"target_max" yaml:"target_max"`
	Addends        []Addend `json:"addends" bson:"addends" yaml:"addends"`
	TimeLimit      *int     `json:"time_limit" bson:"time_limit,omitempty" yaml:"time_limit"`
	HintsAvailable bool     `json:"hints_available" bson:"hints_available" yaml:"hints_available"`
}

// swagger:model GameConfiguration
type GameConfiguration struct {
	ID                  string                 `json:"id" bson:"_id"`
	Title               string                 `json:"title" bson:"title"`
	Description         *string                `json:"description" bson:"description,omitempty"`
	CreatedBy           string                 `json:"created_by" bson:"created_by"`
	CreatedAt           time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at" bson:"updated_at"`
	DifficultyLevels    []DifficultyLevel      `json:"difficulty_levels" bson:"difficulty_levels"`
	StartingLevel       string                 `json:"starting_level" bson:"starting_level"`
	Public              bool                   `json:"public" bson:"public"`
	FeedbackSensitivity float64                `json:"feedback_sensitivity" bson:"feedback_sensitivity"`
	ProgressionCriteria map[string]interface{} `json:"progression_criteria" bson:"progression_criteria"`
}

// Level 按名称查找难度级别
func (c *GameConfiguration) Level(name string) (*DifficultyLevel, bool) {
	for i := range c.DifficultyLevels {
		if c.DifficultyLevels[i].LevelName == name {
			return &c.DifficultyLevels[i], true
		}
	}
	return nil, false
}

func GenerateUUID() string {
	return uuid.New().String()
}
