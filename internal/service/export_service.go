package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path"
	"strings"
	"time"

	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"go.uber.org/zap"
)

type AttemptExport struct {
	UserID     string                 `json:"user_id"`
	ExportedAt time.Time              `json:"exported_at"`
	Count      int                    `json:"count"`
	Attempts   []model.ProblemAttempt `json:"attempts"`
}

type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// ExportService 将用户的作答历史导出到对象存储
type ExportService struct {
	Sessions *SessionService
	Storage  *StorageService
	Clock    func() time.Time
}

func NewExportService(sessions *SessionService, storage *StorageService) *ExportService {
	return &ExportService{Sessions: sessions, Storage: storage, Clock: now}
}

func (s *ExportService) ExportUserAttempts(ctx context.Context, userID string) (*ExportResult, error) {
	attempts, err := s.Sessions.Attempts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	ts := s.Clock()
	doc := AttemptExport{
		UserID:     userID,
		ExportedAt: ts,
		Count:      len(attempts),
		Attempts:   attempts,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	name := ts.Format(util.FileTimeFormat) + "-" + model.GenerateUUID()[:8] + ".json"
	key := path.Join("attempts", userPrefix(userID), name)
	url, err := s.Storage.Save(ctx, key, raw, util.MimeJSON)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Attempts exported",
		zap.String("user_id", userID),
		zap.String("key", key),
		zap.Int("count", len(attempts)))
	return &ExportResult{Key: key, URL: url, Count: len(attempts)}, nil
}

// userPrefix 可读的用户名加上原始 userID 的短摘要，清洗后相同的 id 也不会共用前缀
func userPrefix(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return safeName(userID) + "-" + hex.EncodeToString(sum[:4])
}

// safeName 无论 user id 包含什么字符，都保证对象 key 不越出前缀
func safeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
