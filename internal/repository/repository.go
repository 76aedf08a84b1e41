// Package repository declares the storage contract shared by every backend.
//
// Backends translate their driver errors into the util error kinds: a missing
// entity yields an error matching util.ErrNotFound and a guarded session update
// on a closed session yields util.ErrSessionCompleted.
package repository

import (
	"context"

	"balance_scale_backend/internal/model"
)

type ConfigurationRepository interface {
	Create(ctx context.Context, cfg *model.GameConfiguration) error
	FindByID(ctx context.Context, id string) (*model.GameConfiguration, error)
	// Update replaces the stored configuration with the same ID.
	Update(ctx context.Context, cfg *model.GameConfiguration) error
	Delete(ctx context.Context, id string) error
	// ListPublic and ListByCreator return configurations oldest first.
	ListPublic(ctx context.Context) ([]model.GameConfiguration, error)
	ListByCreator(ctx context.Context, userID string) ([]model.GameConfiguration, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.GameSession) error
	FindByID(ctx context.Context, id string) (*model.GameSession, error)
	// ListByUser returns the newest sessions first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error)
	// RecordAnswer increments answer_count of an open session and, when solved
	// is true, closes it with success. It is a single update guarded by
	// completed = false and returns the session as stored afterwards.
	RecordAnswer(ctx context.Context, id string, solved bool) (*model.GameSession, error)
	// RecordAttempt is RecordAnswer(attempt.SessionID, attempt.Correct) plus
	// the insert of attempt, committed together: when the insert fails the
	// session is left as it was.
	RecordAttempt(ctx context.Context, attempt *model.ProblemAttempt) (*model.GameSession, error)
	// Close moves an open session to closed with the given outcome, under the
	// same guard as RecordAnswer.
	Close(ctx context.Context, id string, success bool) (*model.GameSession, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.ProblemAttempt) error
	// ListBySession returns attempts oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error)
	// ListByUser returns attempts newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error)
}

type ProgressRepository interface {
	Find(ctx context.Context, userID, configurationID string) (*model.GameProgress, error)
	// Save writes the record under its composite key, replacing any existing one.
	Save(ctx context.Context, progress *model.GameProgress) error
	// ListByUser and ListAll return the most recently played first.
	ListByUser(ctx context.Context, userID string) ([]model.GameProgress, error)
	ListAll(ctx context.Context) ([]model.GameProgress, error)
}

// Conn is the lifecycle of the connection behind a Store.
type Conn interface {
	Ping(ctx context.Context) error
	Close() error
}

// Store bundles the repositories of one backend.
type Store struct {
	Driver         string
	Configurations ConfigurationRepository
	Sessions       SessionRepository
	Attempts       AttemptRepository
	Progress       ProgressRepository
	Conn           Conn
}

func (s *Store) Ping(ctx context.Context) error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Ping(ctx)
}

func (s *Store) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}
