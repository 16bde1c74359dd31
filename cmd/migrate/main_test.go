package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"project-hub/internal/database"
)

func restore() {
	loadEnv = func() error { return godotenv.Load() }
	upFn = database.RunMigrations
	downFn = database.RollbackAll
	exitFunc = func(int) {}
}

func TestRun(t *testing.T) {
	t.Cleanup(restore)
	loadEnv = func() error { return nil }
	t.Setenv("DATABASE_URL", "postgres://env")

	var got []string
	upFn = func(url string) error { got = append(got, "up "+url); return nil }
	downFn = func(url string) error { got = append(got, "down "+url); return nil }

	var stderr bytes.Buffer
	require.NoError(t, run([]string{"up"}, &stderr))
	require.NoError(t, run([]string{"-database", "postgres://flag", "down"}, &stderr))
	require.Equal(t, []string{"up postgres://env", "down postgres://flag"}, got)

	require.Error(t, run([]string{"sideways"}, &stderr))
	require.Contains(t, stderr.String(), "usage: migrate")
	require.Error(t, run([]string{"-nope"}, &stderr))
}

func TestRunErrors(t *testing.T) {
	t.Cleanup(restore)
	loadEnv = func() error { return nil }
	t.Setenv("DATABASE_URL", "")
	var stderr bytes.Buffer
	require.ErrorContains(t, run([]string{"up"}, &stderr), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "x")
	upFn = func(string) error { return errors.New("dirty") }
	require.ErrorContains(t, run([]string{"up"}, &stderr), "dirty")
	downFn = func(string) error { return errors.New("locked") }
	require.ErrorContains(t, run([]string{"down"}, &stderr), "locked")

	loadEnv = func() error { return errors.New("bad .env") }
	require.Error(t, run([]string{"up"}, &stderr))
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restore)
	code := 0
	exitFunc = func(c int) { code = c }
	loadEnv = func() error { return nil }
	t.Setenv("DATABASE_URL", "")
	main()
	require.Equal(t, 1, code)
}
