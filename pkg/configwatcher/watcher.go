package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Reloader func(cfg *config.Config)

// Watcher 配置文件变化时重新加载配置。监听所在目录，编辑器替换文件也能感知
type Watcher struct {
	file     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

func New(configFile string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{file: absPath, debounce: debounce, fsw: fsw}, nil
}

// Run 阻塞直到 ctx 结束，每次重新加载后依次调用 reloader。
// 加载失败时记录日志并保留旧配置
func (w *Watcher) Run(ctx context.Context, reloaders ...Reloader) {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(w.file))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", w.file))
			for _, reload := range reloaders {
				reload(newCfg)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
