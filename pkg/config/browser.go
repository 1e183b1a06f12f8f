package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// DefaultCaseHostPattern matches the case-management host where the
	// ASC and note actions are offered.
	DefaultCaseHostPattern = "https://onesupport.crm.dynamics.com/*"

	defaultHeadless = false
	defaultStartURL = "https://onesupport.crm.dynamics.com/"
)

// BrowserSection configures the controlled browser.
type BrowserSection struct {
	Headless        bool   `json:"headless"`
	StartURL        string `json:"start_url"`
	CaseHostPattern string `json:"case_host_pattern"`
	mu              sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Headless:        defaultHeadless,
		StartURL:        defaultStartURL,
		CaseHostPattern: DefaultCaseHostPattern,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure the browser caselens drives: headless mode, the page opened at start and the case host URL pattern."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"headless":          s.Headless,
		"start_url":         s.StartURL,
		"case_host_pattern": s.CaseHostPattern,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "headless":
			headless, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = headless
		case "start_url", "case_host_pattern":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
			}
			if key == "start_url" {
				s.StartURL = str
			} else {
				s.CaseHostPattern = str
			}
		}
	}
	return nil
}

// Validate checks the case host pattern compiles as a glob.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(s.CaseHostPattern) == "" {
		return fmt.Errorf("case_host_pattern must not be empty")
	}
	if _, err := glob.Compile(s.CaseHostPattern); err != nil {
		return fmt.Errorf("invalid case_host_pattern %q: %w", s.CaseHostPattern, err)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = defaultHeadless
	s.StartURL = defaultStartURL
	s.CaseHostPattern = DefaultCaseHostPattern
}

// Settings returns (headless, startURL, caseHostPattern).
func (s *BrowserSection) Settings() (bool, string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless, s.StartURL, s.CaseHostPattern
}
