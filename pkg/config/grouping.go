package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDGrouping is the identifier for the tab grouping section
	SectionIDGrouping = "grouping"

	defaultGrouping           = true
	defaultGroupingCaseNumber = false
)

// GroupingSection controls whether opened tool tabs are collected into
// browser tab groups, and how those groups are titled.
type GroupingSection struct {
	Enabled      bool `json:"grouping"`
	ByCaseNumber bool `json:"grouping_case_number"`
	mu           sync.RWMutex
}

// NewGroupingSection creates a grouping section with default settings.
func NewGroupingSection() *GroupingSection {
	return &GroupingSection{
		Enabled:      defaultGrouping,
		ByCaseNumber: defaultGroupingCaseNumber,
	}
}

// ID returns the section identifier.
func (s *GroupingSection) ID() string {
	return SectionIDGrouping
}

// Title returns the section title.
func (s *GroupingSection) Title() string {
	return "Tab Grouping"
}

// Description returns the section description.
func (s *GroupingSection) Description() string {
	return "Group tabs opened for the same app, or for the same case number, into one tab group."
}

// Data returns the current configuration data.
func (s *GroupingSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"grouping":             s.Enabled,
		"grouping_case_number": s.ByCaseNumber,
	}
}

// SetData updates the configuration from the provided data.
func (s *GroupingSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		enabled, ok := value.(bool)
		switch key {
		case "grouping":
			if !ok {
				return fmt.Errorf("invalid value type for grouping: expected bool, got %T", value)
			}
			s.Enabled = enabled
		case "grouping_case_number":
			if !ok {
				return fmt.Errorf("invalid value type for grouping_case_number: expected bool, got %T", value)
			}
			s.ByCaseNumber = enabled
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *GroupingSection) Validate() error {
	return nil
}

// Reset resets the section to default configuration.
func (s *GroupingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Enabled = defaultGrouping
	s.ByCaseNumber = defaultGroupingCaseNumber
}

// GroupingEnabled reports whether opened tabs should be grouped at all.
func (s *GroupingSection) GroupingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Enabled
}

// GroupByCaseNumber reports whether groups are titled by case number
// instead of app name.
func (s *GroupingSection) GroupByCaseNumber() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ByCaseNumber
}

// SetGrouping updates both grouping flags.
func (s *GroupingSection) SetGrouping(enabled, byCaseNumber bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enabled = enabled
	s.ByCaseNumber = byCaseNumber
}
