package service

import (
	"fmt"
	"os"
	"sync"

	"github.com/xolan/breakruptcy/internal/config"
)

// ConfigService provides operations for managing the application config file
type ConfigService struct {
	mu         sync.RWMutex
	configPath string
	config     config.Config
}

// NewConfigService creates a new ConfigService
func NewConfigService(configPath string, cfg config.Config) *ConfigService {
	return &ConfigService{
		configPath: configPath,
		config:     cfg,
	}
}

// Get returns the current configuration
func (s *ConfigService) Get() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// GetPath returns the path to the config file
func (s *ConfigService) GetPath() string {
	return s.configPath
}

// Exists checks if the config file exists
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Update validates cfg, writes it to the config file and keeps it in memory
func (s *ConfigService) Update(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := config.Write(s.configPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.config = cfg
	return nil
}

// SetTheme persists a new theme id
func (s *ConfigService) SetTheme(theme string) error {
	cfg := s.Get()
	cfg.Theme = theme
	return s.Update(cfg)
}

// Init creates a sample config file
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("config file already exists at %s", s.configPath)
	}

	sample := config.GenerateSampleConfig()
	if err := os.WriteFile(s.configPath, []byte(sample), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reload reloads the configuration from disk
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}
