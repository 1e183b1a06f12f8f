// Package menu builds the action menu: relative App-lens windows, the
// Observer, ASC and browse shortcuts, and one note entry per template.
package menu

import (
	"context"
	"fmt"
	"sync"

	"github.com/gobwas/glob"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/messaging"
	"github.com/entrhq/caselens/pkg/templates"
)

// Context says when an item applies.
type Context string

const (
	// ContextSelection items need selected text on the page.
	ContextSelection Context = "selection"
	// ContextAll items always apply.
	ContextAll Context = "all"
)

// Item ids of the fixed taxonomy.
const (
	RootID     = "app_lens"
	LastHour   = "Last_1_hour"
	Last12h    = "Last_12_hours"
	Last24h    = "Last_24_hours"
	Last3Days  = "Last_72_days"
	BrowseID   = "Browse_App"
	ObserverID = "observer"
	ASCID      = "asc"
	NoteID     = "note"
)

// DefaultCasePattern matches pages of the case management host.
const DefaultCasePattern = "https://onesupport.crm.dynamics.com/*"

// Item is one menu entry. Items with DocumentURLPatterns only show on pages
// matching one of them.
type Item struct {
	ID                  string
	Title               string
	ParentID            string
	Contexts            []Context
	DocumentURLPatterns []string
}

// Source is the template store the note submenu is built from.
type Source interface {
	Refresh(ctx context.Context) (bool, error)
	Snapshot() (templates.Snapshot, error)
}

// Menu holds the current item tree.
type Menu struct {
	casePattern string
	source      Source
	logger      *logging.Logger

	mu    sync.RWMutex
	items []Item
	globs map[string]glob.Glob
}

// New creates a menu holding the fixed taxonomy. casePattern restricts the
// ASC and note entries; empty uses DefaultCasePattern.
func New(source Source, casePattern string, logger *logging.Logger) *Menu {
	if casePattern == "" {
		casePattern = DefaultCasePattern
	}
	if logger == nil {
		logger = logging.Discard("menu")
	}
	m := &Menu{
		casePattern: casePattern,
		source:      source,
		logger:      logger,
		globs:       make(map[string]glob.Glob),
	}
	m.Build(nil)
	return m
}

// Taxonomy returns the fixed items, root first.
func Taxonomy(casePattern string) []Item {
	selection := []Context{ContextSelection}
	all := []Context{ContextAll}
	onCase := []string{casePattern}

	return []Item{
		{ID: RootID, Title: "Open in App Lens", Contexts: all},
		{ID: LastHour, Title: "Last 1 hour", ParentID: RootID, Contexts: selection},
		{ID: Last12h, Title: "Last 12 hours", ParentID: RootID, Contexts: selection},
		{ID: Last24h, Title: "Last 24 hours", ParentID: RootID, Contexts: selection},
		{ID: Last3Days, Title: "Last 3 days", ParentID: RootID, Contexts: selection},
		{ID: BrowseID, Title: "Browse App", ParentID: RootID, Contexts: selection},
		{ID: ObserverID, Title: "Open Observer", ParentID: RootID, Contexts: selection},
		{ID: ASCID, Title: "Open ASC", ParentID: RootID, Contexts: all, DocumentURLPatterns: onCase},
		{ID: NoteID, Title: "Copy note/Email", ParentID: RootID, Contexts: all, DocumentURLPatterns: onCase},
	}
}

// Build replaces the tree with the fixed taxonomy plus one note entry per
// template in snapshot, defaults first.
func (m *Menu) Build(snapshot templates.Snapshot) {
	items := Taxonomy(m.casePattern)
	for _, t := range snapshot.Sorted() {
		items = append(items, Item{
			ID:                  t.ID,
			Title:               t.Name,
			ParentID:            NoteID,
			Contexts:            []Context{ContextAll},
			DocumentURLPatterns: []string{m.casePattern},
		})
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

// Sync re-reads the template store and rebuilds the tree. It is the
// messaging.TypeSync handler.
func (m *Menu) Sync(ctx context.Context, _ messaging.Message) error {
	if _, err := m.source.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh templates: %w", err)
	}
	snapshot, err := m.source.Snapshot()
	if err != nil {
		return err
	}
	m.Build(snapshot)
	m.logger.Debugf("Menu rebuilt with %d templates", len(snapshot))
	return nil
}

// Items returns the whole tree.
func (m *Menu) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Item(nil), m.items...)
}

// Find returns the item with the given id.
func (m *Menu) Find(id string) (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Children returns the items under parent.
func (m *Menu) Children(parent string) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Item
	for _, item := range m.items {
		if item.ParentID == parent {
			out = append(out, item)
		}
	}
	return out
}

// Visible returns the items shown on pageURL. Selection items need
// hasSelection, and a child is hidden with its parent.
func (m *Menu) Visible(pageURL string, hasSelection bool) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	shown := make(map[string]bool, len(m.items))
	var out []Item
	for _, item := range m.items {
		if item.ParentID != "" && !shown[item.ParentID] {
			continue
		}
		if !appliesTo(item, hasSelection) || !m.matchesLocked(item, pageURL) {
			continue
		}
		shown[item.ID] = true
		out = append(out, item)
	}
	return out
}

func appliesTo(item Item, hasSelection bool) bool {
	for _, c := range item.Contexts {
		if c == ContextAll || (c == ContextSelection && hasSelection) {
			return true
		}
	}
	return false
}

func (m *Menu) matchesLocked(item Item, pageURL string) bool {
	if len(item.DocumentURLPatterns) == 0 {
		return true
	}
	for _, pattern := range item.DocumentURLPatterns {
		g, ok := m.globs[pattern]
		if !ok {
			var err error
			g, err = glob.Compile(pattern)
			if err != nil {
				m.logger.Warnf("Ignoring invalid document pattern %q: %v", pattern, err)
				continue
			}
			m.globs[pattern] = g
		}
		if g.Match(pageURL) {
			return true
		}
	}
	return false
}
