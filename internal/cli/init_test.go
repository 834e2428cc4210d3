package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func TestSetupLoggerInstallsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logger := SetupLogger("debug", applog.ComponentWorker)
	if logger.Component() != applog.ComponentWorker {
		t.Fatalf("Component() = %s", logger.Component())
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("default logger must be enabled at debug")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FINTRACK_TEST_VALUE=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("FINTRACK_TEST_VALUE")
	})

	LoadEnvFile()
	if got := os.Getenv("FINTRACK_TEST_VALUE"); got != "from-dotenv" {
		t.Fatalf("FINTRACK_TEST_VALUE = %q", got)
	}
}

func TestInitBackendMemory(t *testing.T) {
	ctx := context.Background()
	res := InitBackend(ctx, slog.Default(), &config.Config{DataBackend: "memory"})
	defer res.Cleanup()

	if _, err := res.Store.AddTransaction(ctx, "u1", core.Transaction{Kind: core.Saving, Amount: 3}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
}
