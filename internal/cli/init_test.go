package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cashbook/internal/config"
	"cashbook/internal/core"
	"cashbook/internal/filter"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:              "8081",
		DataBackend:       config.BackendFile,
		DataDir:           filepath.Join(dir, "data"),
		SQLiteDBPath:      filepath.Join(dir, "data", "cashbook.db"),
		StoreKey:          "transactions",
		SearchDebounce:    500 * time.Millisecond,
		DateDisplayLayout: "2006/1/2",
		CacheTTL:          time.Minute,
		CacheSize:         8,
		ExportBackend:     config.ExportCSV,
		ExportDir:         filepath.Join(dir, "exports"),
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	logger := SetupLogger(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON output, got %s", out)
	}
}

func TestNewApp_PersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	app, err := NewApp(ctx, cfg, nil, AppOptions{})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	amount, _ := core.ParseAmount("42")
	if _, err := app.Service.Create(ctx, core.EntryForm{Amount: amount, Type: core.Income, Date: "2024-02-01"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	app, err = NewApp(ctx, cfg, nil, AppOptions{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer app.Close()

	res, err := app.Service.List(ctx, filter.Query{Window: filter.All()})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Transactions) != 1 || !res.Balance.Income.Equal(amount) {
		t.Errorf("after reopen: %+v", res)
	}
	if err := app.Backend.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNewApp_Categories(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - rent\n  - food\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.CategoriesFile = path

	app, err := NewApp(context.Background(), cfg, nil, AppOptions{})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if got := app.Service.Categories(); len(got) != 2 || got[0] != "rent" {
		t.Errorf("categories = %v", got)
	}

	cfg.CategoriesFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewApp(context.Background(), cfg, nil, AppOptions{}); err == nil {
		t.Error("expected error for missing categories file")
	}
}

func TestNewApp_InvalidBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataBackend = "tape"
	if _, err := NewApp(context.Background(), cfg, nil, AppOptions{}); err == nil {
		t.Fatal("expected error")
	}
}
