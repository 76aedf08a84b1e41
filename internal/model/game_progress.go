package model

import "time"

// swagger:model GameProgress
type GameProgress struct {
	UserID            string    `json:"user_id" bson:"user_id"`
	ConfigurationID   string    `json:"configuration_id" bson:"configuration_id"`
	CurrentLevel      string    `json:"current_level" bson:"current_level"`
	CompletedProblems int       `json:"completed_problems" bson:"completed_problems"`
	CorrectAnswers    int       `json:"correct_answers" bson:"correct_answers"`
	LastPlayed        time.Time `json:"last_played" bson:"last_played"`
	TimeSpent         int       `json:"time_spent" bson:"time_spent"`
}

// ProgressKey 进度记录的组合主键
func ProgressKey(userID, configurationID string) string {
	return userID + "_" + configurationID
}

func (p *GameProgress) Key() string {
	return ProgressKey(p.UserID, p.ConfigurationID)
}
