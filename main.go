// @title Balance Scale 后端 API
// @version 1.0
// @description 天平加法游戏的后端服务器。

// @host localhost:8000
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"os"

	"balance_scale_backend/internal/app"
	"balance_scale_backend/internal/config"
	"balance_scale_backend/pkg/database"
	"balance_scale_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string
	var migrate bool

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.ForceMigrate = migrate

			application, err := app.NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()
			return application.Run()
		},
	}
	// 启动时强制执行数据库迁移（即使是 release 模式）
	serve.Flags().BoolVar(&migrate, "migrate", false, "migrate the schema on start even in release mode")

	root := &cobra.Command{
		Use:           "balance-scale",
		Short:         "Balance Scale Addition game backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yaml")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(&configDir))
	return root
}

// 只执行数据库迁移，完成后退出
func newMigrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema of the configured store, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.InitLogger(cfg)
			defer logger.Log.Sync()

			store, err := database.OpenStore(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.Log.Info("Migration finished", zap.String("driver", cfg.Storage.Driver))
			return nil
		},
	}
}
