package util

import (
	"errors"
	"fmt"
)

// 核心错误类型，具体错误均包装其中之一，调用方用 errors.Is 判断
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrConfigurationNotFound  = fmt.Errorf("game configuration %w", ErrNotFound)
	ErrSessionNotFound        = fmt.Errorf("game session %w", ErrNotFound)
	ErrProgressNotFound       = fmt.Errorf("game progress %w", ErrNotFound)
	ErrSessionCompleted       = fmt.Errorf("session already completed: %w", ErrInvalidState)
	ErrStartingLevelUndefined = fmt.Errorf("starting difficulty level not found: %w", ErrInvalidState)
	ErrInvalidRange           = fmt.Errorf("range minimum exceeds maximum: %w", ErrInvalidArgument)
	ErrPermissionDenied       = errors.New("permission denied")
)

// InvalidArgument 构造参数校验错误，可匹配 ErrInvalidArgument
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// StartingLevelUndefined 配置的起始难度不存在
func StartingLevelUndefined(level string) error {
	return fmt.Errorf("%w: %q", ErrStartingLevelUndefined, level)
}
