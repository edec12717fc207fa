// @title           Konecta Call Center API
// @version         1.0
// @description     Call records, dashboard statistics and user management for the Konecta call center.

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/routes"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/database"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Konecta call center HTTP service",
		Long: `Konecta call center HTTP service.

Without a subcommand the HTTP server is started, the same as "server serve".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run migrations, bootstrap the default supervisor and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations in the configured mode and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()
			return database.Migrate(pool.GetDB(), cfg.DBMigrationMode)
		},
	})

	var calls, days int
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load the demo users and calls into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()

			db := pool.GetDB()
			if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
				return err
			}
			opts := database.DefaultSeedOptions()
			opts.Calls = calls
			opts.Days = days
			return database.SeedDemoData(db, opts)
		},
	}
	seedCmd.Flags().IntVar(&calls, "calls", database.DefaultSeedOptions().Calls, "Number of demo calls to create")
	seedCmd.Flags().IntVar(&days, "days", database.DefaultSeedOptions().Days, "Spread demo calls over this many past days")
	cmd.AddCommand(seedCmd)

	return cmd
}

// bootstrap 加载环境变量、日志和数据库连接
func bootstrap() (*config.Config, *database.ConnectionPool, error) {
	// 加载.env文件，环境变量也可能已经通过其他方式设置
	envErr := godotenv.Load()

	cfg := config.GetConfig()

	// 初始化日志配置
	if err := Logger.SetupLogger(Logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel}); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		return nil, nil, err
	}
	if envErr != nil {
		Logger.Warning("无法加载.env文件: %v", envErr)
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		Logger.Error("无法创建数据库连接池: %v", err)
		return nil, nil, err
	}
	return cfg, pool, nil
}

// runServe 启动HTTP服务，收到退出信号后优雅关闭
func runServe() error {
	cfg, pool, err := bootstrap()
	if err != nil {
		return err
	}
	defer pool.Close()
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		Logger.Error("数据库迁移失败: %v", err)
		return err
	}

	if cfg.SeedDemoData {
		if err := database.SeedDemoData(db, database.DefaultSeedOptions()); err != nil {
			Logger.Error("加载演示数据失败: %v", err)
			return err
		}
	}

	// 确保系统中有主管账户
	if err := database.EnsureSupervisorExists(db, cfg); err != nil {
		Logger.Error("创建默认主管失败: %v", err)
		return err
	}

	if cfg.EnvType == "SERVER" {
		gin.SetMode(gin.ReleaseMode)
	}

	services := container.NewServiceContainerFromConfig(pool, cfg)
	defer services.Close()

	router := routes.SetupRouter(services)
	stop := make(chan struct{})
	defer close(stop)
	router.StartLimiterCleanup(stop)

	printSystemInfo(pool)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Info("服务器启动在: http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			Logger.Error("启动服务器失败: %v", err)
			return err
		}
		return nil
	case sig := <-quit:
		Logger.Info("收到信号 %s，正在关闭服务器", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("关闭服务器失败: %v", err)
		return err
	}
	Logger.Info("服务器已关闭")
	return nil
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	if stats, err := pool.Stats(); err == nil {
		Logger.Info("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	Logger.Info("系统CPU核心数: %d, 当前Go协程数: %d", runtime.NumCPU(), runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	Logger.Info("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
