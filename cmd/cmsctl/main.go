// cmsctl 是内容后台的运维命令行：迁移、修订查看与回滚、预览令牌、用户管理。
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/provider"
	"github.com/inkpress/internal/service"

	"github.com/spf13/cobra"
)

var (
	// 全局参数
	actorEmail string
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cmsctl",
		Short: "Operations tool for the bilingual content API",
		Long: `cmsctl runs maintenance tasks against the content database.

It reads the same config.yml / .env as the API server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&actorEmail, "as", "", "Email of the user recorded as actor (default: first ADMIN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON output")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(revisionsCmd())
	rootCmd.AddCommand(rollbackCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(usersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDatabase 加载配置并连接数据库，命令行场景下审计同步写入
func openDatabase() (*config.Config, error) {
	cfg := config.Load()
	cfg.Queue.Enabled = false
	cfg.Audit.Async = false
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, nil
}

func openContainer() (*provider.Container, error) {
	cfg, err := openDatabase()
	if err != nil {
		return nil, err
	}
	return provider.NewContainer(cfg), nil
}

// resolveActor 根据 --as 查找操作人
func resolveActor(c *provider.Container) (service.Actor, error) {
	actor := service.Actor{IP: "127.0.0.1", RequestID: "cmsctl"}
	if actorEmail != "" {
		user, err := c.UserRepo.GetByEmail(actorEmail)
		if err != nil {
			return actor, err
		}
		if user == nil {
			return actor, fmt.Errorf("user %s not found", actorEmail)
		}
		actor.UserID = user.ID
		actor.Role = user.Role
		return actor, nil
	}
	var admin models.User
	if err := models.DB.Where("role = ?", constants.RoleAdmin).Order("id ASC").First(&admin).Error; err != nil {
		return actor, fmt.Errorf("no ADMIN user found, pass --as: %w", err)
	}
	actor.UserID = admin.ID
	actor.Role = admin.Role
	return actor, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
