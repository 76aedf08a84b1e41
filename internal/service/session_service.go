package service

import (
	"context"
	"errors"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"
	"balance_scale_backend/pkg/monitoring"
	"balance_scale_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type SessionService struct {
	Configs  repository.ConfigurationRepository
	Sessions repository.SessionRepository
	Attempts repository.AttemptRepository
	Targets  *TargetGenerator
	Clock    func() time.Time
}

func NewSessionService(store *repository.Store, targets *TargetGenerator) *SessionService {
	return &SessionService{
		Configs:  store.Configurations,
		Sessions: store.Sessions,
		Attempts: store.Attempts,
		Targets:  targets,
		Clock:    now,
	}
}

// Create 在配置的起始难度上创建会话并随机生成目标数
func (s *SessionService) Create(ctx context.Context, configurationID, userID string) (session *model.GameSession, err error) {
	ctx, span := tracing.StartSpan(ctx, "SessionService.Create", attribute.String("configuration_id", configurationID))
	defer func() { tracing.End(span, err) }()

	cfg, err := s.Configs.FindByID(ctx, configurationID)
	if err != nil {
		return nil, err
	}
	level, ok := cfg.Level(cfg.StartingLevel)
	if !ok {
		return nil, util.StartingLevelUndefined(cfg.StartingLevel)
	}
	target, err := s.Targets.NextTarget(level.TargetMin, level.TargetMax)
	if err != nil {
		return nil, err
	}

	session = &model.GameSession{
		ID:              model.GenerateUUID(),
		UserID:          userID,
		ConfigurationID: cfg.ID,
		DifficultyLevel: level.LevelName,
		TargetNumber:    target,
		StartedAt:       s.Clock(),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	monitoring.SessionsStarted.WithLabelValues(level.LevelName).Inc()
	logger.Log.Debug("Game session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
		zap.String("level", level.LevelName))
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.GameSession, error) {
	return s.Sessions.FindByID(ctx, id)
}

func (s *SessionService) ListByUser(ctx context.Context, userID string, limit int) ([]model.GameSession, error) {
	if limit <= 0 {
		limit = util.DefaultSessionListLimit
	}
	return s.Sessions.ListByUser(ctx, userID, limit)
}

// Complete 以给定结果结束会话，会话已结束时返回 util.ErrSessionCompleted
func (s *SessionService) Complete(ctx context.Context, id string, success bool) (session *model.GameSession, err error) {
	ctx, span := tracing.StartSpan(ctx, "SessionService.Complete", attribute.String("session_id", id))
	defer func() { tracing.End(span, err) }()

	session, err = s.Sessions.Close(ctx, id, success)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}
	monitoring.SessionsClosed.WithLabelValues(monitoring.Outcome(success)).Inc()
	return session, nil
}

type AttemptInput struct {
	Addends   []int
	TimeTaken float64
}

// AttemptResult 作答记录及作答后的会话状态
type AttemptResult struct {
	Attempt *model.ProblemAttempt
	Session *model.GameSession
}

// RecordAttempt 判定一次作答。会话更新与作答记录在存储层一起提交，
// 被拒绝或写入失败时不留下任何修改
func (s *SessionService) RecordAttempt(ctx context.Context, sessionID, userID string, in AttemptInput) (result *AttemptResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "SessionService.RecordAttempt", attribute.String("session_id", sessionID))
	defer func() { tracing.End(span, err) }()

	if len(in.Addends) == 0 {
		return nil, util.InvalidArgument("addends must not be empty")
	}
	if in.TimeTaken < 0 {
		return nil, util.InvalidArgument("time_taken must not be negative")
	}

	current, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Completed {
		s.countRejection(util.ErrSessionCompleted)
		return nil, util.ErrSessionCompleted
	}

	sum := 0
	for _, a := range in.Addends {
		sum += a
	}
	correct := sum == current.TargetNumber

	attempt := &model.ProblemAttempt{
		ID:        model.GenerateUUID(),
		SessionID: sessionID,
		UserID:    userID,
		Addends:   append([]int(nil), in.Addends...),
		Sum:       sum,
		Target:    current.TargetNumber,
		Correct:   correct,
		TimeTaken: in.TimeTaken,
		Timestamp: s.Clock(),
	}
	session, err := s.Sessions.RecordAttempt(ctx, attempt)
	if err != nil {
		s.countRejection(err)
		if !errors.Is(err, util.ErrNotFound) && !errors.Is(err, util.ErrSessionCompleted) {
			logger.Log.Error("Failed to record attempt",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
		return nil, err
	}

	monitoring.AttemptsRecorded.WithLabelValues(boolLabel(correct)).Inc()
	if correct {
		monitoring.SessionsClosed.WithLabelValues(monitoring.Outcome(true)).Inc()
	}
	span.SetAttributes(attribute.Bool("correct", correct))
	return &AttemptResult{Attempt: attempt, Session: session}, nil
}

func (s *SessionService) ListAttempts(ctx context.Context, sessionID string) ([]model.ProblemAttempt, error) {
	if _, err := s.Sessions.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.Attempts.ListBySession(ctx, sessionID)
}

func (s *SessionService) ListUserAttempts(ctx context.Context, userID string, limit int) ([]model.ProblemAttempt, error) {
	if limit <= 0 {
		limit = util.DefaultAttemptListLimit
	}
	return s.Attempts.ListByUser(ctx, userID, limit)
}

func (s *SessionService) countRejection(err error) {
	if errors.Is(err, util.ErrInvalidState) {
		monitoring.ClosedSessionRejections.Inc()
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
