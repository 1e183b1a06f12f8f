package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDSync is the identifier for the template sync section
	SectionIDSync = "sync"

	// DefaultPollInterval is how often surfaces re-read the template store.
	DefaultPollInterval = 5 * time.Second
)

// SyncSection controls how often cached templates are refreshed from storage.
// The interval is also the staleness bound between surfaces.
type SyncSection struct {
	PollInterval time.Duration `json:"poll_interval"`
	mu           sync.RWMutex
}

// NewSyncSection creates a sync section with the default interval.
func NewSyncSection() *SyncSection {
	return &SyncSection{PollInterval: DefaultPollInterval}
}

// ID returns the section identifier.
func (s *SyncSection) ID() string {
	return SectionIDSync
}

// Title returns the section title.
func (s *SyncSection) Title() string {
	return "Template Sync"
}

// Description returns the section description.
func (s *SyncSection) Description() string {
	return "How often template edits made elsewhere are picked up."
}

// Data returns the current configuration data.
func (s *SyncSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"poll_interval": s.PollInterval.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *SyncSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := data["poll_interval"]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration string for poll_interval: %w", err)
		}
		s.PollInterval = d
	case float64:
		// JSON numbers are seconds
		s.PollInterval = time.Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("invalid value type for poll_interval: expected string or number, got %T", value)
	}
	return nil
}

// Validate requires a whole-second interval between 1s and 5m.
func (s *SyncSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.PollInterval < time.Second || s.PollInterval > 5*time.Minute {
		return fmt.Errorf("poll_interval must be between 1s and 5m, got %v", s.PollInterval)
	}
	if s.PollInterval%time.Second != 0 {
		return fmt.Errorf("poll_interval must be a whole number of seconds, got %v", s.PollInterval)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *SyncSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PollInterval = DefaultPollInterval
}

// Interval returns the configured poll interval.
func (s *SyncSection) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PollInterval
}
