// Package service provides the business logic layer for breakruptcy.
// It wraps the timer, persist, storage and config packages, providing a
// clean API for both CLI and TUI frontends.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/clock"
	"github.com/xolan/breakruptcy/internal/config"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/persist"
	"github.com/xolan/breakruptcy/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Session *SessionService
	Config  *ConfigService
	Logger  hclog.Logger

	store     storage.Store
	logCloser io.Closer
}

// Options configures NewServicesWithOptions. Store, Clock and Logger are
// optional; a nil Store is opened from the config's backend in DataDir.
type Options struct {
	DataDir    string
	ConfigPath string
	Config     config.Config
	Store      storage.Store
	Clock      clock.Clock
	Logger     hclog.Logger
}

// NewServices creates a new Services instance with default paths
func NewServices() (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return NewServicesWithPaths(dataDir, configPath, cfg)
}

// NewServicesWithPaths creates a new Services instance with custom paths,
// logging to the file the config names.
func NewServicesWithPaths(dataDir, configPath string, cfg config.Config) (*Services, error) {
	logPath, err := cfg.ResolveLogFile(dataDir)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(logging.Options{Path: logPath, Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return nil, err
	}

	svcs, err := NewServicesWithOptions(Options{
		DataDir:    dataDir,
		ConfigPath: configPath,
		Config:     cfg,
		Logger:     logger,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	svcs.logCloser = logCloser
	return svcs, nil
}

// NewServicesWithOptions creates a new Services instance (useful for testing)
func NewServicesWithOptions(opts Options) (*Services, error) {
	intervals, err := opts.Config.Intervals()
	if err != nil {
		return nil, err
	}
	logger := logging.OrNull(opts.Logger)

	store := opts.Store
	if store == nil {
		store, err = storage.Open(opts.Config.StorageBackend, opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", opts.Config.StorageBackend, err)
		}
	}

	session := NewSessionService(context.Background(), store, SessionOptions{
		Clock:   opts.Clock,
		Logger:  logger.Named("session"),
		Presets: opts.Config.AllPresets(),
		Saver: persist.SaverOptions{
			Debounce: intervals.SaveDebounce,
			Interval: intervals.Save,
			Logger:   logger.Named("persist"),
		},
	})

	return &Services{
		Session: session,
		Config:  NewConfigService(opts.ConfigPath, opts.Config),
		Logger:  logger,
		store:   store,
	}, nil
}

// Close flushes the session and releases the store and the log file.
func (s *Services) Close() error {
	var errs []error
	if err := s.Session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to save session: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	if s.logCloser != nil {
		if err := s.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
