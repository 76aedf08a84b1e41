package memory

import (
	"maps"
	"slices"

	"balance_scale_backend/internal/model"
)

// 存储的值不与调用方共享切片或 map

func cloneConfiguration(c model.GameConfiguration) model.GameConfiguration {
	if c.Description != nil {
		d := *c.Description
		c.Description = &d
	}
	levels := make([]model.DifficultyLevel, len(c.DifficultyLevels))
	for i, l := range c.DifficultyLevels {
		l.Addends = slices.Clone(l.Addends)
		if l.TimeLimit != nil {
			tl := *l.TimeLimit
			l.TimeLimit = &tl
		}
		levels[i] = l
	}
	c.DifficultyLevels = levels
	c.ProgressionCriteria = maps.Clone(c.ProgressionCriteria)
	return c
}

func cloneSession(s model.GameSession) model.GameSession {
	if s.Success != nil {
		v := *s.Success
		s.Success = &v
	}
	return s
}

func cloneAttempt(a model.ProblemAttempt) model.ProblemAttempt {
	a.Addends = slices.Clone(a.Addends)
	return a
}
