package config

import (
	"path/filepath"
	"testing"
	"time"
)

func resetGlobal() {
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()
}

func TestInitialize(t *testing.T) {
	t.Run("registers default sections", func(t *testing.T) {
		resetGlobal()
		defer resetGlobal()

		if err := Initialize(filepath.Join(t.TempDir(), "config.json")); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if !IsInitialized() {
			t.Fatal("Global manager should be initialized")
		}

		if GetGrouping() == nil {
			t.Error("grouping section not registered")
		}
		if GetBrowser() == nil {
			t.Error("browser section not registered")
		}
		if GetSync() == nil {
			t.Error("sync section not registered")
		}
	})

	t.Run("persists across initializations", func(t *testing.T) {
		resetGlobal()
		defer resetGlobal()
		configPath := filepath.Join(t.TempDir(), "config.json")

		if err := Initialize(configPath); err != nil {
			t.Fatalf("First initialize failed: %v", err)
		}
		GetGrouping().SetGrouping(true, true)
		if err := Global().SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}

		resetGlobal()
		if err := Initialize(configPath); err != nil {
			t.Fatalf("Second initialize failed: %v", err)
		}
		if !GetGrouping().GroupByCaseNumber() {
			t.Error("grouping_case_number should survive reload")
		}
		if GetSync().Interval() != DefaultPollInterval {
			t.Errorf("Expected default poll interval, got %v", GetSync().Interval())
		}
	})
}

func TestGlobal_PanicsWhenUninitialized(t *testing.T) {
	resetGlobal()
	defer func() {
		if recover() == nil {
			t.Error("Global should panic when not initialized")
		}
	}()
	Global()
}

func TestAccessors_Uninitialized(t *testing.T) {
	resetGlobal()

	if GetGrouping() != nil || GetBrowser() != nil || GetSync() != nil {
		t.Error("section accessors should return nil before Initialize")
	}
}

func TestGroupingSection(t *testing.T) {
	s := NewGroupingSection()
	if !s.GroupingEnabled() || s.GroupByCaseNumber() {
		t.Error("unexpected grouping defaults")
	}

	if err := s.SetData(map[string]interface{}{"grouping": false, "grouping_case_number": true}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if s.GroupingEnabled() || !s.GroupByCaseNumber() {
		t.Error("SetData not applied")
	}

	if err := s.SetData(map[string]interface{}{"grouping": "yes"}); err == nil {
		t.Error("expected type error for non-bool grouping")
	}

	s.Reset()
	if !s.GroupingEnabled() || s.GroupByCaseNumber() {
		t.Error("Reset should restore defaults")
	}
}

func TestBrowserSection(t *testing.T) {
	s := NewBrowserSection()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if err := s.SetData(map[string]interface{}{"case_host_pattern": "https://[bad"}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if err := s.Validate(); err == nil {
		t.Error("expected invalid glob to fail validation")
	}

	if err := s.SetData(map[string]interface{}{"headless": 1}); err == nil {
		t.Error("expected type error for non-bool headless")
	}

	s.Reset()
	headless, start, pattern := s.Settings()
	if headless || start == "" || pattern != DefaultCaseHostPattern {
		t.Errorf("unexpected reset state: %v %q %q", headless, start, pattern)
	}
}

func TestSyncSection(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", value: "10s", want: 10 * time.Second},
		{name: "json number is seconds", value: float64(5), want: 5 * time.Second},
		{name: "bad string", value: "soon", wantErr: true},
		{name: "bad type", value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSyncSection()
			err := s.SetData(map[string]interface{}{"poll_interval": tt.value})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetData failed: %v", err)
			}
			if s.Interval() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, s.Interval())
			}
		})
	}

	s := NewSyncSection()
	s.PollInterval = 1500 * time.Millisecond
	if err := s.Validate(); err == nil {
		t.Error("fractional seconds should fail validation")
	}
	s.PollInterval = 10 * time.Minute
	if err := s.Validate(); err == nil {
		t.Error("intervals above 5m should fail validation")
	}
}
