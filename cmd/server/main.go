package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/inkpress/internal/app"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	rawMode := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	skipMigrate := flag.Bool("skip-migrate", false, "跳过启动时的数据库迁移")
	flag.Parse()

	mode, err := app.ParseMode(*rawMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	printStartupBanner(mode)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	release := cfg.Server.Mode == "release"
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	checkJWTSecret(stdLog, cfg.JWT.SecretKey, release)
	openDatabase(stdLog, cfg.Database, !*skipMigrate)
	ensureDefaultAdmin(stdLog, release)

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func checkJWTSecret(stdLog *log.Logger, secret string, release bool) {
	if !isWeakSecret(secret) {
		return
	}
	if release {
		stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
	}
	stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
}

func openDatabase(stdLog *log.Logger, db config.DatabaseConfig, migrate bool) {
	if err := models.InitDB(db.Driver, db.DSN, models.DBPoolConfig{
		MaxOpenConns:           db.Pool.MaxOpenConns,
		MaxIdleConns:           db.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: db.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: db.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if !migrate {
		return
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}
}

// ensureDefaultAdmin 首次启动时创建 ADMIN 账号，生产环境必须显式提供密码
func ensureDefaultAdmin(stdLog *log.Logger, release bool) {
	email := os.Getenv("INK_DEFAULT_ADMIN_EMAIL")
	password := os.Getenv("INK_DEFAULT_ADMIN_PASSWORD")
	if release && password == "" {
		stdLog.Printf("警告: 未设置 INK_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
		return
	}
	if err := models.InitDefaultAdmin(email, password); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "inkpress" + ansiReset + ansiDim + "  bilingual (vi/en) content API" + ansiReset)
	fmt.Println(ansiDim + "mode=" + mode + "  admin=/api/v1/admin  public=/api/v1/public" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
