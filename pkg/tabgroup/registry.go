package tabgroup

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is in-process tab group bookkeeping. Hosts whose browser has no
// native tab groups embed it; MemoryHost is a Registry with fake tabs.
type Registry struct {
	mu      sync.Mutex
	groups  map[GroupID]*Group
	members map[TabID]GroupID
	nextID  GroupID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		groups:  make(map[GroupID]*Group),
		members: make(map[TabID]GroupID),
		nextID:  1,
	}
}

// QueryGroups returns groups titled title, oldest first.
func (r *Registry) QueryGroups(ctx context.Context, title string) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Group
	for _, g := range r.groups {
		if g.Title == title {
			out = append(out, copyGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddToGroup moves tab into group.
func (r *Registry) AddToGroup(ctx context.Context, tab TabID, group GroupID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[group]
	if !ok {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, group)
	}
	r.detachLocked(tab)
	g.TabIDs = append(g.TabIDs, tab)
	r.members[tab] = group
	return nil
}

// NewGroup creates an untitled group holding tab.
func (r *Registry) NewGroup(ctx context.Context, tab TabID) (GroupID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detachLocked(tab)
	id := r.nextID
	r.nextID++
	r.groups[id] = &Group{ID: id, Color: Grey, TabIDs: []TabID{tab}}
	r.members[tab] = id
	return id, nil
}

// UpdateGroup sets the title and color of group.
func (r *Registry) UpdateGroup(ctx context.Context, group GroupID, title string, color Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[group]
	if !ok {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, group)
	}
	g.Title = title
	g.Color = color
	return nil
}

// RemoveTab drops a closed tab. Groups left empty are removed.
func (r *Registry) RemoveTab(tab TabID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(tab)
}

// Groups returns every live group ordered by id.
func (r *Registry) Groups() []Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, copyGroup(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GroupOf returns the group holding tab.
func (r *Registry) GroupOf(tab TabID) (GroupID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.members[tab]
	return id, ok
}

func (r *Registry) detachLocked(tab TabID) {
	id, ok := r.members[tab]
	if !ok {
		return
	}
	delete(r.members, tab)

	g := r.groups[id]
	for i, t := range g.TabIDs {
		if t == tab {
			g.TabIDs = append(g.TabIDs[:i], g.TabIDs[i+1:]...)
			break
		}
	}
	if len(g.TabIDs) == 0 {
		delete(r.groups, id)
	}
}

func copyGroup(g *Group) Group {
	out := *g
	out.TabIDs = append([]TabID(nil), g.TabIDs...)
	return out
}

// MemoryHost is a Host with no browser behind it. Tabs are recorded.
type MemoryHost struct {
	*Registry

	mu     sync.Mutex
	tabs   []Tab
	nextID TabID
}

// NewMemoryHost creates an empty in-memory host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{Registry: NewRegistry(), nextID: 1}
}

// CreateTab implements Host.
func (h *MemoryHost) CreateTab(ctx context.Context, url string) (Tab, error) {
	if err := ctx.Err(); err != nil {
		return Tab{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	tab := Tab{ID: h.nextID, URL: url}
	h.nextID++
	h.tabs = append(h.tabs, tab)
	return tab, nil
}

// Tabs returns every tab opened so far.
func (h *MemoryHost) Tabs() []Tab {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Tab(nil), h.tabs...)
}
