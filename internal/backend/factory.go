package backend

import (
	"context"
	"fmt"

	"cashbook/internal/config"
	"cashbook/internal/export"
	"cashbook/internal/kv"
	"cashbook/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

var _ Factory = (*DefaultFactory)(nil)

// CreateStore opens the key-value store selected by config.
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		s, err := kv.NewSQLite(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldBackend, config.Type, "db_path", config.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case FileBackend:
		s, err := kv.NewFile(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", log.FieldBackend, config.Type, "data_directory", config.DataDirectory)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case MemoryBackend:
		s := kv.NewMemory()
		f.logger.InfoContext(ctx, "Initialized memory backend, data is not persisted", log.FieldBackend, config.Type)
		return &Result{Store: s, Cleanup: s.Close}, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

// ExportConfig selects and configures the exporter.
type ExportConfig struct {
	Backend string
	Dir     string
	Sheets  export.SheetsConfig
}

// CreateExporter builds the exporter selected by EXPORT_BACKEND.
func (f *DefaultFactory) CreateExporter(ctx context.Context, cfg ExportConfig) (export.Exporter, error) {
	switch cfg.Backend {
	case config.ExportSheets:
		exp, err := export.NewSheets(ctx, cfg.Sheets, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		return exp, nil
	case config.ExportCSV, "":
		exp, err := export.NewCSV(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize CSV exporter: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized CSV exporter", "export_dir", cfg.Dir)
		return exp, nil
	}
	return nil, fmt.Errorf("unsupported export backend: %s", cfg.Backend)
}
