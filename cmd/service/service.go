package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"project-hub/internal/asset"
	"project-hub/internal/cache"
	"project-hub/internal/config"
	"project-hub/internal/database"
	"project-hub/internal/handler"
	"project-hub/internal/router"
	"project-hub/internal/service"
	"project-hub/internal/storage"
	"project-hub/internal/worker"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	_ "project-hub/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

var (
	loadEnv          = func() error { return godotenv.Load() }
	newPgxPool       = database.NewPgxPool
	newRedisClient   = cache.NewRedisClient
	runMigrationsFn  = database.RunMigrations
	seedCategoriesFn = service.SeedCategories
	startServer      = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool    = worker.NewPool
	exitFunc         = os.Exit
)

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func run() error {
	// .env 可有可無
	if err := loadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("讀取 .env 失敗: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(logLevels[cfg.LogLevel])

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	redis, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer redis.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}
	if err := seedCategoriesFn(ctx, db); err != nil {
		return fmt.Errorf("建立預設分類失敗: %w", err)
	}

	files, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("初始化檔案儲存失敗: %w", err)
	}
	assets := asset.NewResolver(files, cfg.PublicBaseURL)

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	sessions := service.NewSessions(redis, cfg.JWTSecret, cfg.TokenTTL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Logger.SetLevel(logLevels[cfg.LogLevel])
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL, "http://localhost:3000"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// 上傳上限 20 MiB，額外留給其他表單欄位
	e.Use(middleware.BodyLimit("21M"))

	router.Setup(e, router.Deps{
		DB:         db,
		Cache:      redis,
		Accounts:   service.NewAccounts(db, sessions, assets),
		Projects:   service.NewProjects(db, files, assets, wp),
		Sessions:   sessions,
		Presenter:  handler.NewPresenter(assets),
		StorageDir: files.Root(),
		AuthRate:   rate.Limit(cfg.AuthRate),
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, cfg.HTTPAddr)
}
