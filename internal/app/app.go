package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/controller"
	"balance_scale_backend/internal/middleware"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/service"
	"balance_scale_backend/pkg/configwatcher"
	"balance_scale_backend/pkg/database"
	"balance_scale_backend/pkg/logger"
	"balance_scale_backend/pkg/monitoring"
	"balance_scale_backend/pkg/security"
	"balance_scale_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Store           *repository.Store
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
	stop            context.CancelFunc
}

type services struct {
	configuration *service.ConfigurationService
	session       *service.SessionService
	progress      *service.ProgressService
	storage       *service.StorageService
	export        *service.ExportService
	seed          *service.SeedService
}

type controllers struct {
	configuration *controller.GameConfigurationController
	session       *controller.GameSessionController
	progress      *controller.ProgressController
	admin         *controller.AdminController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initServices() (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(&a.Config.Object)
	if err != nil {
		return nil, err
	}
	s.storage = storage
	s.configuration = service.NewConfigurationService(a.Store.Configurations)
	s.session = service.NewSessionService(a.Store, service.NewTargetGenerator())
	s.progress = service.NewProgressService(a.Store.Progress, a.Store.Configurations)
	s.export = service.NewExportService(s.session, s.storage)
	s.seed = service.NewSeedService(s.configuration)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		configuration: controller.NewGameConfigurationController(s.configuration),
		session:       controller.NewGameSessionController(s.session),
		progress:      controller.NewProgressController(s.progress),
		admin:         controller.NewAdminController(s.progress, s.session, s.export),
		health:        controller.NewHealthController(a.Store),
	}
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, cfg.RateWindow()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化日志、打开配置的存储并构建应用
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully", zap.String("driver", cfg.Storage.Driver))

	store, err := database.OpenStore(ctx, cfg, cfg.ShouldMigrate())
	if err != nil {
		return nil, err
	}

	app, err := New(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

// New 基于已打开的存储构建应用，失败时 store 仍归调用方关闭
func New(ctx context.Context, cfg *config.Config, store *repository.Store) (*App, error) {
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	// 监控初始化
	monitoring.Init()

	bg, stop := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		Store:  store,
		stop:   stop,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			stop()
			return nil, err
		}
		app.tracer = tp
	}

	svc, err := app.initServices()
	if err != nil {
		app.release()
		return nil, err
	}
	app.services = svc

	if cfg.Seed.Enabled {
		n, err := svc.seed.Seed(ctx, cfg.Seed.File)
		if err != nil {
			app.release()
			return nil, err
		}
		if n > 0 {
			logger.Log.Info("Seeded default configurations", zap.Int("count", n))
		}
	}

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(bg, router, cfg)
	app.registerRoutes(router, app.initControllers(svc), cfg)

	app.RegisterConfigCallback(logger.ApplyConfig)
	return app, nil
}

// Close 释放存储、追踪器和后台协程
func (a *App) Close() {
	a.release()
	if err := a.Store.Close(); err != nil {
		logger.Log.Error("Failed to close store", zap.Error(err))
	}
}

func (a *App) release() {
	a.stop()
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
}

// Run 启动 HTTP 服务，收到 SIGINT 或 SIGTERM 后优雅退出
func (a *App) Run() error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.ConfigFile != "" {
		watcher, err := configwatcher.New(a.Config.ConfigFile, 500*time.Millisecond)
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		} else {
			go watcher.Run(ctx, a.configCallbacks...)
		}
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Log.Info("Server exiting")
	return nil
}
