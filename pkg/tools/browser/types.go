package browser

import (
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/caselens/pkg/tabgroup"
)

const (
	// DefaultViewportWidth is the default browser viewport width
	DefaultViewportWidth = 1366

	// DefaultViewportHeight is the default browser viewport height
	DefaultViewportHeight = 900

	// DefaultTimeout is the default operation timeout in milliseconds
	DefaultTimeout = 30000
)

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// StartURL is opened in the first tab; empty opens nothing
	StartURL string

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// pageAPI is the part of a Playwright page a session uses.
type pageAPI interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
	URL() string
	Title() (string, error)
	BringToFront() error
	Close(options ...playwright.PageCloseOptions) error
}

// TabInfo describes an open tab.
type TabInfo struct {
	ID     tabgroup.TabID
	URL    string
	Title  string
	Group  string
	Active bool
}
