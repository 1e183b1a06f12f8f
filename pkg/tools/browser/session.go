package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/tabgroup"
)

// ErrNoActiveTab is returned when reading a page with no tab open.
var ErrNoActiveTab = errors.New("no active tab")

const (
	// readElementText returns the rendered text of the first match, or null.
	readElementText = `sel => { const el = document.querySelector(sel); return el ? el.innerText : null; }`

	// readElementValue returns the value of the first matching form field, or null.
	readElementValue = `sel => { const el = document.querySelector(sel); return el ? el.value : null; }`

	readSelection = `() => { const s = window.getSelection(); return s ? s.toString() : ""; }`
)

// Session is one browser window. It implements tabgroup.Host and
// page.Reader over its active tab.
type Session struct {
	*tabgroup.Registry

	newPage func() (pageAPI, error)
	closeFn func() error
	logger  *logging.Logger

	mu     sync.Mutex
	pages  map[tabgroup.TabID]pageAPI
	active tabgroup.TabID
	nextID tabgroup.TabID
	closed bool
}

func newSession(newPage func() (pageAPI, error), closeFn func() error, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Discard("browser")
	}
	return &Session{
		Registry: tabgroup.NewRegistry(),
		newPage:  newPage,
		closeFn:  closeFn,
		logger:   logger,
		pages:    make(map[tabgroup.TabID]pageAPI),
		nextID:   1,
	}
}

// CreateTab opens url in a new tab and makes it active. It implements
// tabgroup.Host.
func (s *Session) CreateTab(ctx context.Context, url string) (tabgroup.Tab, error) {
	if err := ctx.Err(); err != nil {
		return tabgroup.Tab{}, err
	}

	p, err := s.newPage()
	if err != nil {
		return tabgroup.Tab{}, fmt.Errorf("failed to create page: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = p.Close()
		return tabgroup.Tab{}, errors.New("browser session closed")
	}
	id := s.nextID
	s.nextID++
	s.pages[id] = p
	s.active = id
	s.mu.Unlock()

	if notifier, ok := p.(interface{ OnClose(func(playwright.Page)) }); ok {
		notifier.OnClose(func(playwright.Page) { s.forget(id) })
	}

	waitUntil := playwright.WaitUntilState("domcontentloaded")
	if _, err := p.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		// The tab stays open on the failed page, as a browser would.
		s.logger.Warnf("Navigation of tab %d to %s failed: %v", id, url, err)
	}

	return tabgroup.Tab{ID: id, URL: url}, nil
}

// Navigate loads url in the active tab, opening a tab when none is open.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p, _, err := s.activePage()
	if errors.Is(err, ErrNoActiveTab) {
		_, err = s.CreateTab(ctx, url)
		return err
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Activate makes tab the active tab and brings it to the front.
func (s *Session) Activate(tab tabgroup.TabID) error {
	s.mu.Lock()
	p, ok := s.pages[tab]
	if ok {
		s.active = tab
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("tab %d not found", tab)
	}
	return p.BringToFront()
}

// CloseTab closes one tab. The most recent remaining tab becomes active.
func (s *Session) CloseTab(tab tabgroup.TabID) error {
	s.mu.Lock()
	p, ok := s.pages[tab]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("tab %d not found", tab)
	}
	err := p.Close()
	s.forget(tab)
	return err
}

// ActiveURL returns the URL of the active tab, empty when none is open.
func (s *Session) ActiveURL() string {
	p, _, err := s.activePage()
	if err != nil {
		return ""
	}
	return p.URL()
}

// Tabs lists open tabs in opening order.
func (s *Session) Tabs() []TabInfo {
	s.mu.Lock()
	ids := make([]tabgroup.TabID, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	pages := make(map[tabgroup.TabID]pageAPI, len(s.pages))
	for id, p := range s.pages {
		pages[id] = p
	}
	active := s.active
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	titles := make(map[tabgroup.GroupID]string)
	for _, g := range s.Groups() {
		titles[g.ID] = g.Title
	}

	infos := make([]TabInfo, 0, len(ids))
	for _, id := range ids {
		p := pages[id]
		title, _ := p.Title()
		info := TabInfo{ID: id, URL: p.URL(), Title: title, Active: id == active}
		if g, ok := s.GroupOf(id); ok {
			info.Group = titles[g]
		}
		infos = append(infos, info)
	}
	return infos
}

// CaseHeader implements page.Reader.
func (s *Session) CaseHeader(ctx context.Context) (string, bool, error) {
	return s.evalString(ctx, readElementText, page.CaseHeaderSelector)
}

// Verbatim implements page.Reader.
func (s *Session) Verbatim(ctx context.Context) (string, bool, error) {
	return s.evalString(ctx, readElementValue, page.VerbatimSelector)
}

// Selection returns the text selected in the active tab.
func (s *Session) Selection(ctx context.Context) (string, error) {
	text, _, err := s.evalString(ctx, readSelection, nil)
	return text, err
}

// Close closes every tab and the browser. Safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pages := s.pages
	s.pages = make(map[tabgroup.TabID]pageAPI)
	s.mu.Unlock()

	for id, p := range pages {
		_ = p.Close() // Ignore errors, continue cleanup
		s.RemoveTab(id)
	}
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

func (s *Session) evalString(ctx context.Context, script string, arg interface{}) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p, _, err := s.activePage()
	if err != nil {
		return "", false, err
	}

	var result interface{}
	if arg == nil {
		result, err = p.Evaluate(script)
	} else {
		result, err = p.Evaluate(script, arg)
	}
	if err != nil {
		return "", false, fmt.Errorf("page evaluation failed: %w", err)
	}

	switch v := result.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	default:
		return fmt.Sprint(v), true, nil
	}
}

func (s *Session) activePage() (pageAPI, tabgroup.TabID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[s.active]
	if !ok {
		return nil, 0, ErrNoActiveTab
	}
	return p, s.active, nil
}

func (s *Session) forget(tab tabgroup.TabID) {
	s.mu.Lock()
	if _, ok := s.pages[tab]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pages, tab)
	if s.active == tab {
		s.active = 0
		for id := range s.pages {
			if id > s.active {
				s.active = id
			}
		}
	}
	s.mu.Unlock()

	s.RemoveTab(tab)
	s.logger.Debugf("Tab %d closed", tab)
}
