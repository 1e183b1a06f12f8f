// Package tabgroup places newly opened tabs into titled, colored tab groups.
package tabgroup

import (
	"context"
	"errors"
)

// Color is a tab group color.
type Color string

const (
	Grey   Color = "grey"
	Blue   Color = "blue"
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Pink   Color = "pink"
	Purple Color = "purple"
	Cyan   Color = "cyan"
	Orange Color = "orange"
)

// Palette is the fixed set of colors new groups are drawn from.
var Palette = []Color{Grey, Blue, Red, Yellow, Green, Pink, Purple, Cyan, Orange}

// TabID identifies a browser tab.
type TabID int

// GroupID identifies a tab group.
type GroupID int

// NoGroup is returned when a tab was not grouped.
const NoGroup GroupID = -1

// ErrGroupNotFound is returned for operations on an unknown group.
var ErrGroupNotFound = errors.New("tab group not found")

// Tab is an open browser tab.
type Tab struct {
	ID  TabID
	URL string
}

// Group is a live tab group.
type Group struct {
	ID     GroupID
	Title  string
	Color  Color
	TabIDs []TabID
}

// Host is the browser's tab and tab-group surface.
type Host interface {
	// CreateTab opens url in a new tab.
	CreateTab(ctx context.Context, url string) (Tab, error)

	// QueryGroups returns live groups whose title equals title exactly.
	QueryGroups(ctx context.Context, title string) ([]Group, error)

	// AddToGroup moves tab into an existing group.
	AddToGroup(ctx context.Context, tab TabID, group GroupID) error

	// NewGroup creates an untitled group containing only tab.
	NewGroup(ctx context.Context, tab TabID) (GroupID, error)

	// UpdateGroup sets a group's title and color.
	UpdateGroup(ctx context.Context, group GroupID, title string, color Color) error
}

// Settings supplies the grouping policy flags.
type Settings interface {
	GroupingEnabled() bool
	GroupByCaseNumber() bool
}
