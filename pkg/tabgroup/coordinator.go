package tabgroup

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/entrhq/caselens/pkg/logging"
)

// Coordinator opens tabs and groups them by app name or case number.
type Coordinator struct {
	host     Host
	settings Settings
	logger   *logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCoordinator creates a coordinator. rng picks colors for new groups; a
// seeded source gives deterministic colors in tests.
func NewCoordinator(host Host, settings Settings, rng *rand.Rand, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Discard("tabgroup")
	}
	return &Coordinator{host: host, settings: settings, rng: rng, logger: logger}
}

// Open opens url in a new tab and groups it. The group title is the case
// number when grouping by case number is enabled and a case number is
// known, otherwise the app name. The tab stays ungrouped when grouping is
// disabled or neither value is available.
func (c *Coordinator) Open(ctx context.Context, url, appName, caseNumber string) (Tab, GroupID, error) {
	tab, err := c.host.CreateTab(ctx, url)
	if err != nil {
		return Tab{}, NoGroup, fmt.Errorf("failed to open tab: %w", err)
	}

	title := c.Title(appName, caseNumber)
	if title == "" {
		return tab, NoGroup, nil
	}

	group, err := c.PlaceInGroup(ctx, tab, title)
	if err != nil {
		return tab, NoGroup, err
	}
	return tab, group, nil
}

// Title returns the group title for a tab, empty when the tab should not be
// grouped.
func (c *Coordinator) Title(appName, caseNumber string) string {
	if appName == "" && caseNumber == "" {
		return ""
	}
	if c.settings == nil || !c.settings.GroupingEnabled() {
		return ""
	}
	if c.settings.GroupByCaseNumber() && caseNumber != "" {
		return caseNumber
	}
	return appName
}

// PlaceInGroup adds tab to the group titled title, creating the group with
// a random palette color when none exists.
func (c *Coordinator) PlaceInGroup(ctx context.Context, tab Tab, title string) (GroupID, error) {
	groups, err := c.host.QueryGroups(ctx, title)
	if err != nil {
		return NoGroup, fmt.Errorf("failed to query tab groups: %w", err)
	}

	if len(groups) > 0 {
		id := groups[0].ID
		if err := c.host.AddToGroup(ctx, tab.ID, id); err != nil {
			return NoGroup, fmt.Errorf("failed to add tab to group %q: %w", title, err)
		}
		c.logger.Debugf("Tab %d joined group %q", tab.ID, title)
		return id, nil
	}

	id, err := c.host.NewGroup(ctx, tab.ID)
	if err != nil {
		return NoGroup, fmt.Errorf("failed to create tab group: %w", err)
	}

	color := c.pickColor()
	if err := c.host.UpdateGroup(ctx, id, title, color); err != nil {
		return NoGroup, fmt.Errorf("failed to title tab group: %w", err)
	}
	c.logger.Debugf("Tab %d started group %q (%s)", tab.ID, title, color)
	return id, nil
}

func (c *Coordinator) pickColor() Color {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rng == nil {
		return Palette[rand.Intn(len(Palette))]
	}
	return Palette[c.rng.Intn(len(Palette))]
}
