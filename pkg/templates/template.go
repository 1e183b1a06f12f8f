// Package templates holds note/email templates and the store that persists
// them as a single mapping under the "templates" storage key.
package templates

import (
	"errors"
	"sort"
)

const (
	// StorageKey is the storage key holding the whole template mapping.
	StorageKey = "templates"

	// MaxCustomTemplates caps the number of non-default templates.
	MaxCustomTemplates = 8

	// Ids of the seeded default templates.
	IDIssueNote = "note_fqr"
	IDFollowUp  = "note_follow"
	IDQuickIR   = "note_quick_ir"
)

var (
	// ErrNotLoaded is returned when the store is read before its first load.
	ErrNotLoaded = errors.New("templates not loaded")

	// ErrTemplateNotFound is returned when a template id is not in the store.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDefaultTemplate is returned when deleting a default template.
	ErrDefaultTemplate = errors.New("default templates cannot be deleted")

	// ErrCapacity is returned when adding a custom template beyond the cap.
	ErrCapacity = errors.New("custom template limit reached")
)

// Template is an HTML body with {placeholder} tokens.
type Template struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"isDefault" yaml:"is_default"`
	Template  string `json:"template" yaml:"template"`
}

// Snapshot is the whole id -> Template mapping, the unit of persistence.
type Snapshot map[string]Template

// Clone returns an independent copy of s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for id, t := range s {
		out[id] = t
	}
	return out
}

// CustomCount returns the number of non-default templates.
func (s Snapshot) CustomCount() int {
	n := 0
	for _, t := range s {
		if !t.IsDefault {
			n++
		}
	}
	return n
}

// Sorted returns templates with defaults first (in seeding order) and custom
// templates after them ordered by name.
func (s Snapshot) Sorted() []Template {
	out := make([]Template, 0, len(s))
	for _, t := range s {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		if a.IsDefault {
			return defaultRank(a.ID) < defaultRank(b.ID)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

func defaultRank(id string) int {
	for i, d := range defaultOrder {
		if d == id {
			return i
		}
	}
	return len(defaultOrder)
}
