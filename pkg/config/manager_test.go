package config

import (
	"fmt"
	"sync"
	"testing"
)

// mockSection is a test implementation of the Section interface
type mockSection struct {
	id          string
	data        map[string]interface{}
	validateErr error
	resetCount  int
}

func (m *mockSection) ID() string                                { return m.id }
func (m *mockSection) Title() string                             { return m.id }
func (m *mockSection) Description() string                       { return "" }
func (m *mockSection) Data() map[string]interface{}              { return m.data }
func (m *mockSection) SetData(data map[string]interface{}) error { m.data = data; return nil }
func (m *mockSection) Validate() error                           { return m.validateErr }
func (m *mockSection) Reset()                                    { m.resetCount++ }

// mockStore is a test implementation of the Store interface
type mockStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMockStore() *mockStore {
	return &mockStore{sections: make(map[string]map[string]interface{})}
}

func (m *mockStore) Load() error { return m.loadErr }

func (m *mockStore) Save() error {
	if m.saveErr == nil {
		m.saves++
	}
	return m.saveErr
}

func (m *mockStore) GetSection(sectionID string) (map[string]interface{}, error) {
	return m.sections[sectionID], nil
}

func (m *mockStore) SetSection(sectionID string, data map[string]interface{}) error {
	m.sections[sectionID] = data
	return nil
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("prevents duplicate registration", func(t *testing.T) {
		manager := NewManager(newMockStore())

		if err := manager.RegisterSection(&mockSection{id: "test"}); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}
		if err := manager.RegisterSection(&mockSection{id: "test"}); err == nil {
			t.Error("Expected error for duplicate registration")
		}
	})

	t.Run("maintains registration order", func(t *testing.T) {
		manager := NewManager(newMockStore())
		for _, id := range []string{"c", "a", "b"} {
			_ = manager.RegisterSection(&mockSection{id: id})
		}

		sections := manager.GetSections()
		if len(sections) != 3 {
			t.Fatalf("Expected 3 sections, got %d", len(sections))
		}
		for i, want := range []string{"c", "a", "b"} {
			if sections[i].ID() != want {
				t.Errorf("Section %d: expected %s, got %s", i, want, sections[i].ID())
			}
		}
	})
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("applies stored data", func(t *testing.T) {
		store := newMockStore()
		store.sections["test"] = map[string]interface{}{"key": "value"}

		manager := NewManager(store)
		section := &mockSection{id: "test", data: map[string]interface{}{}}
		_ = manager.RegisterSection(section)

		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if section.data["key"] != "value" {
			t.Error("Section data not loaded correctly")
		}
	})

	t.Run("keeps defaults for absent sections", func(t *testing.T) {
		manager := NewManager(newMockStore())
		section := &mockSection{id: "test", data: map[string]interface{}{"default": true}}
		_ = manager.RegisterSection(section)

		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if section.data["default"] != true {
			t.Error("Absent section should keep its defaults")
		}
	})

	t.Run("rejects invalid stored section", func(t *testing.T) {
		store := newMockStore()
		store.sections["test"] = map[string]interface{}{"key": "value"}

		manager := NewManager(store)
		_ = manager.RegisterSection(&mockSection{id: "test", validateErr: fmt.Errorf("bad value")})

		if err := manager.LoadAll(); err == nil {
			t.Error("Expected validation error for stored section")
		}
	})

	t.Run("rejects out of range poll interval", func(t *testing.T) {
		store := newMockStore()
		store.sections["sync"] = map[string]interface{}{"poll_interval": "10ms"}

		manager := NewManager(store)
		_ = manager.RegisterSection(NewSyncSection())

		if err := manager.LoadAll(); err == nil {
			t.Error("Expected LoadAll to reject a 10ms poll interval")
		}
	})

	t.Run("propagates store load error", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = fmt.Errorf("load error")

		if err := NewManager(store).LoadAll(); err == nil {
			t.Error("Expected error from store")
		}
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("saves all sections to store", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		_ = manager.RegisterSection(&mockSection{id: "test", data: map[string]interface{}{"key": "value"}})

		if err := manager.SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		if store.sections["test"]["key"] != "value" {
			t.Error("Section data not saved correctly")
		}
		if store.saves != 1 {
			t.Errorf("Expected 1 save, got %d", store.saves)
		}
	})

	t.Run("validates sections before saving", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		_ = manager.RegisterSection(&mockSection{id: "test", validateErr: fmt.Errorf("validation error")})

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected validation error")
		}
		if store.saves != 0 {
			t.Error("Invalid sections must not be saved")
		}
	})

	t.Run("propagates store save error", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = fmt.Errorf("save error")
		manager := NewManager(store)
		_ = manager.RegisterSection(&mockSection{id: "test"})

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected error from store")
		}
	})
}

func TestManager_ResetAll(t *testing.T) {
	manager := NewManager(newMockStore())
	a := &mockSection{id: "a"}
	b := &mockSection{id: "b"}
	_ = manager.RegisterSection(a)
	_ = manager.RegisterSection(b)

	manager.ResetAll()

	if a.resetCount != 1 || b.resetCount != 1 {
		t.Error("ResetAll should reset every section once")
	}
}

func TestManager_Concurrency(t *testing.T) {
	manager := NewManager(newMockStore())
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = manager.RegisterSection(&mockSection{id: fmt.Sprintf("s%d", n)})
		}(i)
		go func() {
			defer wg.Done()
			manager.GetSections()
			manager.GetSection("s1")
		}()
	}
	wg.Wait()

	if got := len(manager.GetSections()); got != 10 {
		t.Errorf("Expected 10 sections, got %d", got)
	}
}
