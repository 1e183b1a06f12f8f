package launcher

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/tabgroup"
)

type grouping struct{ byCase bool }

func (grouping) GroupingEnabled() bool     { return true }
func (g grouping) GroupByCaseNumber() bool { return g.byCase }

var now = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func newLauncher(p *page.Static, byCase bool) (*Launcher, *tabgroup.MemoryHost) {
	host := tabgroup.NewMemoryHost()
	coord := tabgroup.NewCoordinator(host, grouping{byCase: byCase}, rand.New(rand.NewSource(1)), nil)
	return New(p, p, coord, func() time.Time { return now }, nil), host
}

func onlyTab(t *testing.T, host *tabgroup.MemoryHost) tabgroup.Tab {
	t.Helper()
	tabs := host.Tabs()
	require.Len(t, tabs, 1)
	return tabs[0]
}

func TestOpenAppLens(t *testing.T) {
	p := &page.Static{CaseHeaderText: "2401150010001234 | title"}
	l, host := newLauncher(p, false)

	require.NoError(t, l.OpenAppLens(context.Background(), "mysite", 1))

	assert.Equal(t,
		"https://applens.trafficmanager.net/sites/mysite?startTime=2024-01-15T10:44:00.000Z&endTime=2024-01-15T11:44:00.000Z&caseNumber=2401150010001234",
		onlyTab(t, host).URL)

	groups := host.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "mysite", groups[0].Title)
}

func TestOpenAppLens_GroupByCase(t *testing.T) {
	p := &page.Static{CaseHeaderText: "123456"}
	l, host := newLauncher(p, true)
	ctx := context.Background()

	require.NoError(t, l.OpenAppLens(ctx, "site-a", 12))
	require.NoError(t, l.OpenAppLens(ctx, "site-b", 24))

	groups := host.Groups()
	require.Len(t, groups, 1, "both tabs share the case group")
	assert.Equal(t, "123456", groups[0].Title)
	assert.Len(t, groups[0].TabIDs, 2)
}

func TestOpenAppLens_CancelledPromptFlowsEmpty(t *testing.T) {
	p := &page.Static{}
	l, host := newLauncher(p, false)

	require.NoError(t, l.OpenAppLens(context.Background(), "mysite", 72))

	url := onlyTab(t, host).URL
	assert.Contains(t, url, "startTime=2024-01-12T11:44:00.000Z")
	assert.True(t, strings.HasSuffix(url, "&caseNumber="), url)
	assert.Len(t, p.Prompts(), 1)
}

func TestOpenObserverAndBrowse(t *testing.T) {
	p := &page.Static{}
	l, host := newLauncher(p, false)
	ctx := context.Background()

	require.NoError(t, l.OpenObserver(ctx, "mysite"))
	require.NoError(t, l.BrowseApp(ctx, "mysite"))

	tabs := host.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "https://wawsobserver.azurewebsites.windows.net/sites/mysite", tabs[0].URL)
	assert.Equal(t, "https://mysite.azurewebsites.net/", tabs[1].URL)
	assert.Empty(t, p.Prompts(), "neither flow needs a case number")
	assert.Len(t, host.Groups(), 1)
}

func TestOpenASC(t *testing.T) {
	p := &page.Static{CaseHeaderText: "987654"}
	l, host := newLauncher(p, false)

	require.NoError(t, l.OpenASC(context.Background(), ""))

	assert.Equal(t, "https://azuresupportcenter.msftcloudes.com/solutionexplorer?SourceId=OneSupport&srId=987654", onlyTab(t, host).URL)
	assert.Empty(t, host.Groups(), "no selection, no group")
}

func TestOpenASC_GroupedBySelection(t *testing.T) {
	p := &page.Static{CaseHeaderText: "987654"}
	l, host := newLauncher(p, false)

	require.NoError(t, l.OpenASC(context.Background(), "mysite"))

	groups := host.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "mysite", groups[0].Title)
}

func TestReaderError(t *testing.T) {
	boom := errors.New("page gone")
	p := &page.Static{Err: boom}
	l, host := newLauncher(p, false)

	assert.ErrorIs(t, l.OpenAppLens(context.Background(), "mysite", 1), boom)
	assert.Empty(t, host.Tabs(), "no tab opens when the case number cannot be read")
}
