/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/dogukanveziroglu/DailyReporter/internal/api"
	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/dogukanveziroglu/DailyReporter/internal/container"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Initialize database with the admin account",
	Long: `Run migrations and create the initial admin user if it does not exist.
The admin username and password come from auth.admin_username and
auth.admin_password in the config file or environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		if err := ensureAdminUser(ctr, cfg, logger); err != nil {
			return err
		}

		logger.Info("Seed completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("config", "", "Config file path (default: search in current directory, ./config, or $HOME/.daily-reporter)")
}

// ensureAdminUser 确保配置的管理员账号存在
// 已存在时不做任何修改,密码变更需走重置流程
func ensureAdminUser(ctr *container.Container, cfg *config.Config, logger *logrus.Logger) error {
	username := cfg.Auth.AdminUsername
	if username == "" {
		return nil
	}

	users := repository.NewUserRepository(ctr.DB())
	existing, err := users.FindByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.UserModel{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         auth.RoleAdmin,
	}
	if err := users.Create(admin, nil); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.WithField("username", username).Info("Admin user created")
	return nil
}
