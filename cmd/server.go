/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/remotehive/jobboard-gin/internal/api"
	"github.com/remotehive/jobboard-gin/internal/config"
	"github.com/remotehive/jobboard-gin/internal/container"
	"github.com/remotehive/jobboard-gin/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Jobboard Gin API server.
The server will listen on the configured host and port,
and provide REST API interfaces for job post workflow management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 初始化日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		api.SetDefaultLogger(logger)

		// 3. 初始化容器
		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 4. 启动定时扫描
		if ctr.SchedulerService() != nil {
			if err := ctr.SchedulerService().Start(context.Background()); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
		}

		// 启动时清理过期归档
		if ctr.ArchiveService() != nil && cfg.Archive.RetentionDays > 0 {
			if err := ctr.ArchiveService().CleanupOldArchives(context.Background(), cfg.Archive.RetentionDays); err != nil {
				logger.WithError(err).Warn("failed to clean up old archives")
			}
		}

		// 5. 启动指标采集器
		collector := metrics.NewCollector(ctr.DB(), 30*time.Second)
		collector.Start()
		defer collector.Stop()

		// 6. 监听配置文件变更
		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath)
			watcher.OnConfigChange(func(updated *config.Config) {
				if level, err := logrus.ParseLevel(updated.Log.Level); err == nil {
					api.SetLoggerLevel(level)
				}
				logger.Info("configuration reloaded")
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("failed to start config watcher")
			} else {
				defer watcher.Stop()
			}
		}

		// 7. 设置路由
		router := api.SetupRoutes(api.RouterDeps{
			Config:            cfg,
			DB:                ctr.DB(),
			Hub:               ctr.Hub(),
			TokenParser:       ctr.TokenParser(),
			JobPostService:    ctr.JobPostService(),
			EmployerService:   ctr.EmployerService(),
			QueryService:      ctr.QueryService(),
			StatisticsService: ctr.StatisticsService(),
			SchedulerService:  ctr.SchedulerService(),
			ArchiveService:    ctr.ArchiveService(),
		})

		// 8. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 启动服务器（在 goroutine 中）
		go func() {
			logger.Infof("Server starting on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("Failed to start server: %v", err)
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Fatalf("Server forced to shutdown: %v", err)
		}

		logger.Info("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
