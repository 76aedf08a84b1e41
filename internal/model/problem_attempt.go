package model

import "time"

// ProblemAttempt 一次作答记录，只追加不修改
//
// swagger:model ProblemAttempt
type ProblemAttempt struct {
	ID        string    `json:"id" bson:"_id"`
	SessionID string    `json:"session_id" bson:"session_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Addends   []int     `json:"addends" bson:"addends"`
	Sum       int       `json:"sum" bson:"sum"`
	Target    int       `json:"target" bson:"target"`
	Correct   bool      `json:"correct" bson:"correct"`
	TimeTaken float64   `json:"time_taken" bson:"time_taken"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
