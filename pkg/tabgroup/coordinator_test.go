package tabgroup

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flags struct {
	enabled, byCase bool
}

func (f flags) GroupingEnabled() bool   { return f.enabled }
func (f flags) GroupByCaseNumber() bool { return f.byCase }

func newTestCoordinator(f flags) (*Coordinator, *MemoryHost) {
	host := NewMemoryHost()
	return NewCoordinator(host, f, rand.New(rand.NewSource(7)), nil), host
}

func TestOpen_SameTitleSharesGroup(t *testing.T) {
	ctx := context.Background()
	c, host := newTestCoordinator(flags{enabled: true})

	tab1, g1, err := c.Open(ctx, "https://a", "mysite", "")
	require.NoError(t, err)
	tab2, g2, err := c.Open(ctx, "https://b", "mysite", "")
	require.NoError(t, err)
	_, g3, err := c.Open(ctx, "https://c", "othersite", "")
	require.NoError(t, err)

	assert.Equal(t, g1, g2)
	assert.NotEqual(t, g1, g3)

	groups := host.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "mysite", groups[0].Title)
	assert.Equal(t, []TabID{tab1.ID, tab2.ID}, groups[0].TabIDs)
	assert.Equal(t, "othersite", groups[1].Title)
	assert.Contains(t, Palette, groups[0].Color)
	assert.Contains(t, Palette, groups[1].Color)
	assert.Len(t, host.Tabs(), 3)
}

func TestOpen_DeterministicColors(t *testing.T) {
	ctx := context.Background()

	colorsFor := func() []Color {
		c, host := newTestCoordinator(flags{enabled: true})
		for _, app := range []string{"a", "b", "c", "d"} {
			_, _, err := c.Open(ctx, "https://x", app, "")
			require.NoError(t, err)
		}
		var colors []Color
		for _, g := range host.Groups() {
			colors = append(colors, g.Color)
		}
		return colors
	}

	assert.Equal(t, colorsFor(), colorsFor(), "same seed, same colors")
}

func TestOpen_GroupingPolicy(t *testing.T) {
	tests := []struct {
		name       string
		flags      flags
		app, kase  string
		wantTitle  string
		wantGroups int
	}{
		{name: "disabled", flags: flags{enabled: false}, app: "mysite", kase: "123", wantGroups: 0},
		{name: "nothing to title", flags: flags{enabled: true}, wantGroups: 0},
		{name: "by app", flags: flags{enabled: true}, app: "mysite", kase: "123", wantTitle: "mysite", wantGroups: 1},
		{name: "by case", flags: flags{enabled: true, byCase: true}, app: "mysite", kase: "123", wantTitle: "123", wantGroups: 1},
		{name: "by case without case falls back to app", flags: flags{enabled: true, byCase: true}, app: "mysite", wantTitle: "mysite", wantGroups: 1},
		{name: "case only without case grouping", flags: flags{enabled: true}, kase: "123", wantGroups: 0},
		{name: "case only with case grouping", flags: flags{enabled: true, byCase: true}, kase: "123", wantTitle: "123", wantGroups: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, host := newTestCoordinator(tt.flags)

			tab, group, err := c.Open(context.Background(), "https://x", tt.app, tt.kase)
			require.NoError(t, err)
			assert.Equal(t, "https://x", tab.URL)
			assert.Len(t, host.Tabs(), 1, "tab always opens")

			groups := host.Groups()
			require.Len(t, groups, tt.wantGroups)
			if tt.wantGroups == 0 {
				assert.Equal(t, NoGroup, group)
				return
			}
			assert.Equal(t, groups[0].ID, group)
			assert.Equal(t, tt.wantTitle, groups[0].Title)
		})
	}
}

func TestOpen_NilSettingsSkipsGrouping(t *testing.T) {
	host := NewMemoryHost()
	c := NewCoordinator(host, nil, nil, nil)

	_, group, err := c.Open(context.Background(), "https://x", "mysite", "")
	require.NoError(t, err)
	assert.Equal(t, NoGroup, group)
}

type failingHost struct {
	*MemoryHost
	createErr, queryErr error
}

func (f *failingHost) CreateTab(ctx context.Context, url string) (Tab, error) {
	if f.createErr != nil {
		return Tab{}, f.createErr
	}
	return f.MemoryHost.CreateTab(ctx, url)
}

func (f *failingHost) QueryGroups(ctx context.Context, title string) ([]Group, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.MemoryHost.QueryGroups(ctx, title)
}

func TestOpen_HostErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	c := NewCoordinator(&failingHost{MemoryHost: NewMemoryHost(), createErr: boom}, flags{enabled: true}, nil, nil)
	_, _, err := c.Open(ctx, "https://x", "app", "")
	assert.ErrorIs(t, err, boom)

	host := &failingHost{MemoryHost: NewMemoryHost(), queryErr: boom}
	c = NewCoordinator(host, flags{enabled: true}, nil, nil)
	tab, group, err := c.Open(ctx, "https://x", "app", "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, NoGroup, group)
	assert.NotZero(t, tab.ID, "tab is returned even when grouping fails")
}
