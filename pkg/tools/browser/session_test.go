package browser

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/tabgroup"
)

// fakePage answers evaluations from a selector -> value table.
type fakePage struct {
	url       string
	title     string
	elements  map[string]interface{}
	selection string
	gotoErr   error
	clipboard string
	clipErr   error
	closed    bool
	fronted   int
}

func (f *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	f.url = url
	return nil, f.gotoErr
}

func (f *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if expression == writeClipboardHTML {
		if f.clipErr != nil {
			return nil, f.clipErr
		}
		f.clipboard = arg[0].(string)
		return true, nil
	}
	if len(arg) == 0 {
		return f.selection, nil
	}
	v, ok := f.elements[arg[0].(string)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (f *fakePage) URL() string { return f.url }
func (f *fakePage) Title() (string, error) { return f.title, nil }
func (f *fakePage) BringToFront() error { f.fronted++; return nil }
func (f *fakePage) Close(options ...playwright.PageCloseOptions) error {
	f.closed = true
	return nil
}

type fakeBrowser struct {
	pages  []*fakePage
	next   func() *fakePage
	closed bool
}

func (b *fakeBrowser) newPage() (pageAPI, error) {
	p := &fakePage{elements: map[string]interface{}{}}
	if b.next != nil {
		p = b.next()
	}
	b.pages = append(b.pages, p)
	return p, nil
}

func newFakeSession() (*Session, *fakeBrowser) {
	b := &fakeBrowser{}
	return newSession(b.newPage, func() error { b.closed = true; return nil }, nil), b
}

func TestSession_CreateTabActivates(t *testing.T) {
	s, b := newFakeSession()
	ctx := context.Background()

	t1, err := s.CreateTab(ctx, "https://a")
	require.NoError(t, err)
	t2, err := s.CreateTab(ctx, "https://b")
	require.NoError(t, err)

	assert.NotEqual(t, t1.ID, t2.ID)
	assert.Equal(t, "https://b", s.ActiveURL())
	assert.Equal(t, "https://a", b.pages[0].url)

	require.NoError(t, s.Activate(t1.ID))
	assert.Equal(t, "https://a", s.ActiveURL())
	assert.Equal(t, 1, b.pages[0].fronted)
	assert.Error(t, s.Activate(99))
}

func TestSession_NavigationFailureKeepsTab(t *testing.T) {
	b := &fakeBrowser{next: func() *fakePage {
		return &fakePage{gotoErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	}}
	s := newSession(b.newPage, nil, nil)

	tab, err := s.CreateTab(context.Background(), "https://nowhere.invalid")
	require.NoError(t, err)
	assert.Len(t, s.Tabs(), 1)
	assert.Equal(t, "https://nowhere.invalid", tab.URL)
}

func TestSession_ReadsActivePage(t *testing.T) {
	s, b := newFakeSession()
	b.next = func() *fakePage {
		return &fakePage{
			elements: map[string]interface{}{
				page.CaseHeaderSelector: "2401150010001234 | Title",
				page.VerbatimSelector:   "ProblemStartTime: 2024-01-15T10:30:00",
			},
			selection: "mysite",
		}
	}
	ctx := context.Background()

	_, _, err := s.CaseHeader(ctx)
	assert.ErrorIs(t, err, ErrNoActiveTab)

	_, err = s.CreateTab(ctx, "https://onesupport.crm.dynamics.com/case")
	require.NoError(t, err)

	header, ok, err := s.CaseHeader(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2401150010001234 | Title", header)

	verbatim, ok, err := s.Verbatim(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, verbatim, "ProblemStartTime")

	selection, err := s.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mysite", selection)
}

func TestSession_AbsentElement(t *testing.T) {
	s, _ := newFakeSession()
	ctx := context.Background()
	_, err := s.CreateTab(ctx, "https://example.com")
	require.NoError(t, err)

	_, ok, err := s.CaseHeader(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_GroupsThroughCoordinator(t *testing.T) {
	s, _ := newFakeSession()
	ctx := context.Background()
	coord := tabgroup.NewCoordinator(s, grouping{}, rand.New(rand.NewSource(3)), nil)

	_, _, err := coord.Open(ctx, "https://a", "mysite", "")
	require.NoError(t, err)
	_, _, err = coord.Open(ctx, "https://b", "mysite", "")
	require.NoError(t, err)

	tabs := s.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "mysite", tabs[0].Group)
	assert.Equal(t, "mysite", tabs[1].Group)
	assert.True(t, tabs[1].Active)
	assert.Len(t, s.Groups(), 1)
}

func TestSession_CloseTab(t *testing.T) {
	s, b := newFakeSession()
	ctx := context.Background()
	coord := tabgroup.NewCoordinator(s, grouping{}, nil, nil)

	t1, _, err := coord.Open(ctx, "https://a", "one", "")
	require.NoError(t, err)
	t2, _, err := coord.Open(ctx, "https://b", "two", "")
	require.NoError(t, err)

	require.NoError(t, s.CloseTab(t2.ID))
	assert.True(t, b.pages[1].closed)
	assert.Equal(t, "https://a", s.ActiveURL(), "previous tab becomes active")

	groups := s.Groups()
	require.Len(t, groups, 1, "closing the last tab of a group removes it")
	assert.Equal(t, []tabgroup.TabID{t1.ID}, groups[0].TabIDs)
}

func TestSession_Close(t *testing.T) {
	s, b := newFakeSession()
	ctx := context.Background()
	_, err := s.CreateTab(ctx, "https://a")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, b.closed)
	assert.True(t, b.pages[0].closed)
	assert.Empty(t, s.Tabs())
	assert.Empty(t, s.ActiveURL())

	_, err = s.CreateTab(ctx, "https://b")
	assert.Error(t, err)
}

func TestSession_NavigateOpensFirstTab(t *testing.T) {
	s, b := newFakeSession()
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, "https://a"))
	require.NoError(t, s.Navigate(ctx, "https://b"))

	assert.Len(t, b.pages, 1)
	assert.Equal(t, "https://b", s.ActiveURL())
}

type grouping struct{}

func (grouping) GroupingEnabled() bool   { return true }
func (grouping) GroupByCaseNumber() bool { return false }
