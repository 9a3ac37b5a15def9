package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBaseURL             = "api.base_url"
	keyTimeoutSeconds      = "api.timeout_seconds"
	keyNoRetryPaths        = "api.no_retry_paths"
	keyRateLimit           = "api.rate_limit_rps"
	keyRateBurst           = "api.rate_limit_burst"
	keyExpiryBufferSeconds = "session.expiry_buffer_seconds"
	keyStrictRefreshExpiry = "session.strict_refresh_expiry"
	keyStorageBackend      = "storage.backend"
)

// EnvBaseURL overrides the configured base URL.
const EnvBaseURL = "ADMINDESK_API_URL"

// SettingsService resolves client configuration from defaults, the config
// store and the environment, in increasing order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get resolves the current client configuration.
func (s *SettingsService) Get() (domain.ClientConfig, error) {
	defaults := domain.DefaultClientConfig()

	cfg := domain.ClientConfig{
		BaseURL:             s.getString(keyBaseURL, defaults.BaseURL),
		Timeout:             s.getSeconds(keyTimeoutSeconds, defaults.Timeout),
		NoRetryPaths:        defaults.NoRetryPaths,
		RateLimit:           s.configStore.GetFloat(keyRateLimit),
		RateBurst:           s.getInt(keyRateBurst, defaults.RateBurst),
		ExpiryBuffer:        s.getSeconds(keyExpiryBufferSeconds, defaults.ExpiryBuffer),
		StrictRefreshExpiry: s.getBool(keyStrictRefreshExpiry, defaults.StrictRefreshExpiry),
		Storage:             domain.StorageBackend(s.getString(keyStorageBackend, string(defaults.Storage))),
	}
	if _, exists := s.configStore.Get(keyNoRetryPaths); exists {
		cfg.NoRetryPaths = s.configStore.GetStringSlice(keyNoRetryPaths)
	}
	if env := strings.TrimSpace(s.getenv(EnvBaseURL)); env != "" {
		cfg.BaseURL = env
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", s.configStore.Path(), err)
	}
	return cfg, nil
}

// Set parses value for key, checks the resulting configuration and persists it.
func (s *SettingsService) Set(key, value string) error {
	cfg, err := s.Get()
	if err != nil {
		// Allow fixing a broken file one key at a time.
		cfg = domain.DefaultClientConfig()
	}

	var typed any
	switch key {
	case keyBaseURL:
		cfg.BaseURL = value
		typed = value
	case keyTimeoutSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		cfg.Timeout = time.Duration(n) * time.Second
		typed = int64(n)
	case keyNoRetryPaths:
		paths := splitList(value)
		cfg.NoRetryPaths = paths
		typed = paths
	case keyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		cfg.RateLimit = f
		typed = f
	case keyRateBurst, keyExpiryBufferSeconds:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		typed = int64(n)
	case keyStrictRefreshExpiry:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		typed = b
	case keyStorageBackend:
		cfg.Storage = domain.StorageBackend(value)
		typed = value
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, typed)
}

// Keys lists the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyBaseURL, keyTimeoutSeconds, keyNoRetryPaths, keyRateLimit, keyRateBurst,
		keyExpiryBufferSeconds, keyStrictRefreshExpiry, keyStorageBackend,
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
