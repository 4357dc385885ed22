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

	"github.com/dogukanveziroglu/DailyReporter/internal/api"
	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/dogukanveziroglu/DailyReporter/internal/container"
	"github.com/dogukanveziroglu/DailyReporter/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Daily Reporter API server.
The server will listen on the configured host and port,
and provide REST API interfaces for daily report management.`,
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

		// 3. 初始化容器
		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 4. 确保管理员账号存在
		if err := ensureAdminUser(ctr, cfg, logger); err != nil {
			return fmt.Errorf("failed to ensure admin user: %w", err)
		}

		// 5. 启动指标收集器
		collector := metrics.NewCollector(ctr.DB(), 30*time.Second)
		collector.Start()
		defer collector.Stop()

		// 6. 监听配置文件变更,热更新日志级别
		if configPath != "" {
			watcher := config.NewWatcher(cfg, configPath)
			watcher.OnChange(func(updated *config.Config) {
				level, err := logrus.ParseLevel(updated.Log.Level)
				if err != nil {
					logger.WithField("level", updated.Log.Level).Warn("Invalid log level in updated config")
					return
				}
				logger.SetLevel(level)
				logger.WithField("level", updated.Log.Level).Info("Log level updated from config")
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("Config watcher failed to start")
			} else {
				defer watcher.Stop()
			}
		}

		// 7. 设置路由
		router := api.SetupRoutes(ctr, cfg)

		// 自定义 NoRoute 处理器,返回 JSON 格式的 404
		router.NoRoute(func(c *gin.Context) {
			api.Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
		})

		// 8. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 启动服务器（在 goroutine 中）
		go func() {
			logger.WithField("addr", addr).Info("Server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("Failed to start server")
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
			logger.WithError(err).Fatal("Server forced to shutdown")
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

// LoadConfig 加载配置
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}
