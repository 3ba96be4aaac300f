package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// APIConfig is the connection configuration for the decision service.
// Empty strings mean "not configured".
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// Configured reports whether a base URL has been set.
func (c APIConfig) Configured() bool {
	return c.BaseURL != ""
}

// MaskedKey returns the API key with all but the last four characters hidden.
func (c APIConfig) MaskedKey() string {
	n := len(c.APIKey)
	switch {
	case n == 0:
		return ""
	case n <= 4:
		return "****"
	default:
		return "****" + c.APIKey[n-4:]
	}
}

// Store reads and writes the API connection settings. Every Get goes back to disk,
// so edits made by another process are picked up on the next call.
type Store struct {
	logger   *zap.Logger
	debounce time.Duration
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithStoreLogger sets the logger used to report storage failures
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebounce sets how long Watch waits for writes to settle before notifying
func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		s.debounce = d
	}
}

// NewStore creates a Store backed by the config file in GetConfigDir().
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		logger:   zap.NewNop(),
		debounce: 150 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the persisted connection settings. Storage failures degrade to the
// unconfigured state instead of failing.
func (s *Store) Get() APIConfig {
	cfg, err := LoadConfig()
	if err != nil {
		s.logger.Warn("config store unavailable", zap.Error(err))
		return APIConfig{}
	}
	return cfg.API()
}

// Set writes both connection keys unconditionally. Empty values are stored as-is,
// which leaves the client unconfigured.
func (s *Store) Set(baseURL, apiKey string) error {
	cfg, err := LoadFileConfig()
	if err != nil {
		// A corrupt file is replaced rather than blocking the save.
		s.logger.Warn("overwriting unreadable config file", zap.Error(err))
		cfg = DefaultConfig()
	}

	cfg.APIURL = baseURL
	cfg.APIKey = apiKey

	if err := SaveConfig(cfg); err != nil {
		return err
	}
	s.logger.Info("api config saved",
		zap.String("base_url", baseURL),
		zap.Bool("api_key_set", apiKey != ""),
	)
	return nil
}

// Watch calls fn with the fresh connection settings each time the config file is
// written. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(APIConfig)) error {
	dir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors and SaveConfig may replace the file.
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Join(dir, configFileName)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := func() {
		fn(s.Get())
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, fire)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
