package main

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"project-hub/internal/api"
	"project-hub/internal/cache"
	"project-hub/internal/database"
	"project-hub/internal/service"
	"project-hub/internal/worker"
)

func restoreGlobals() {
	loadEnv = func() error { return godotenv.Load() }
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	seedCategoriesFn = service.SeedCategories
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool = worker.NewPool
	exitFunc = func(code int) {}
}

func setEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("REDIS_ADDR", "127")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORAGE_DIR", t.TempDir())
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("AUTH_RATE_LIMIT", "")
}

// stubDeps 讓 run 不碰到真正的 Postgres 與 Redis
func stubDeps() {
	loadEnv = func() error { return nil }
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	newRedisClient = func(string, string, int) (cache.Cache, error) { return &cache.FakeCache{}, nil }
	runMigrationsFn = func(string) error { return nil }
	seedCategoriesFn = func(context.Context, database.DB) error { return nil }
	startServer = func(*echo.Echo, string) error { return nil }
}

func TestCustomValidator(t *testing.T) {
	cv := newValidator()
	require.NoError(t, cv.Validate(&api.LoginRequest{Email: "a@b.io", Password: "x"}))
	require.Error(t, cv.Validate(&api.LoginRequest{Email: "nope"}))
}

func TestRunSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	setEnv(t)
	called := make(map[string]bool)
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	seedCategoriesFn = func(context.Context, database.DB) error { called["seed"] = true; return nil }
	newWorkerPool = func(n int) worker.Pool { called["worker"] = true; return worker.Inline{} }
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":18080", addr)
		require.NotNil(t, e.Validator)
		return nil
	}

	require.NoError(t, run())
	for _, k := range []string{"pgx", "redis", "migrate", "seed", "worker", "start", "dbClose", "redisClose"} {
		require.True(t, called[k], k)
	}
}

func TestRunErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	setEnv(t)
	stubDeps()

	loadEnv = func() error { return &fs.PathError{Op: "open", Path: ".env", Err: fs.ErrNotExist} }
	require.NoError(t, run(), "missing .env is fine")
	loadEnv = func() error { return errors.New("bad line") }
	require.Error(t, run())
	loadEnv = func() error { return nil }

	t.Setenv("DATABASE_URL", "")
	require.Error(t, run())
	t.Setenv("DATABASE_URL", "db")

	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
	require.Error(t, run())
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }

	newRedisClient = func(string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
	require.Error(t, run())
	newRedisClient = func(string, string, int) (cache.Cache, error) { return &cache.FakeCache{}, nil }

	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.Error(t, run())
	runMigrationsFn = func(string) error { return nil }

	seedCategoriesFn = func(context.Context, database.DB) error { return errors.New("seed") }
	require.Error(t, run())
	seedCategoriesFn = func(context.Context, database.DB) error { return nil }

	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.Error(t, run())
}

func TestMainFunction(t *testing.T) {
	t.Cleanup(restoreGlobals)
	setEnv(t)
	stubDeps()
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	main()
	require.Equal(t, 0, exitCode)
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	setEnv(t)
	stubDeps()
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}
