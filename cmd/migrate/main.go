// File: cmd/migrate/main.go
// migrate 手動執行資料庫遷移：up 套用全部，down 全部回滾
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"project-hub/internal/database"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

var (
	loadEnv  = func() error { return godotenv.Load() }
	upFn     = database.RunMigrations
	downFn   = database.RollbackAll
	exitFunc = os.Exit
)

func run(args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: migrate [-database URL] up|down")
		flags.PrintDefaults()
	}
	dbURL := flags.String("database", "", "Postgres 連線字串，預設讀 DATABASE_URL")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := loadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("讀取 .env 失敗: %w", err)
	}
	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}
	if *dbURL == "" {
		return fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}

	switch flags.Arg(0) {
	case "up":
		if err := upFn(*dbURL); err != nil {
			return fmt.Errorf("Migration 執行失敗: %w", err)
		}
	case "down":
		if err := downFn(*dbURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %w", err)
		}
	default:
		flags.Usage()
		return fmt.Errorf("未知的指令 %q", flags.Arg(0))
	}
	log.Infof("migrate %s 完成", flags.Arg(0))
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Error(err)
		exitFunc(1)
	}
}
