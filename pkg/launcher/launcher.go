// Package launcher opens the diagnostic tools for the active case.
//
// Every flow resolves the case number first, then builds the link, then
// opens and groups the tab.
package launcher

import (
	"context"
	"time"

	"github.com/entrhq/caselens/pkg/casenumber"
	"github.com/entrhq/caselens/pkg/links"
	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/tabgroup"
)

// Opener opens a url in a grouped tab. *tabgroup.Coordinator satisfies it.
type Opener interface {
	Open(ctx context.Context, url, appName, caseNumber string) (tabgroup.Tab, tabgroup.GroupID, error)
}

// Launcher runs the link flows.
type Launcher struct {
	resolver *casenumber.Resolver
	opener   Opener
	now      func() time.Time
	logger   *logging.Logger
}

// New creates a launcher reading case numbers through reader and dialogs.
// A nil now uses time.Now.
func New(reader page.Reader, dialogs page.Dialogs, opener Opener, now func() time.Time, logger *logging.Logger) *Launcher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Discard("launcher")
	}
	return &Launcher{
		resolver: casenumber.NewResolver(reader, dialogs, logger),
		opener:   opener,
		now:      now,
		logger:   logger,
	}
}

// OpenAppLens opens App-lens for app over the last hours hours. A missing
// case number is embedded as empty text.
func (l *Launcher) OpenAppLens(ctx context.Context, app string, hours int) error {
	caseNumber, err := l.caseNumber(ctx)
	if err != nil {
		return err
	}
	url := links.AppLens(app, links.Relative(l.now(), hours), caseNumber)
	return l.open(ctx, url, app, caseNumber)
}

// OpenObserver opens the Observer dashboard of app.
func (l *Launcher) OpenObserver(ctx context.Context, app string) error {
	return l.open(ctx, links.Observer(app), app, "")
}

// OpenASC opens Azure Support Center for the case. The tab is grouped under
// the selected text, if any.
func (l *Launcher) OpenASC(ctx context.Context, selection string) error {
	caseNumber, err := l.caseNumber(ctx)
	if err != nil {
		return err
	}
	return l.open(ctx, links.ASC(caseNumber), selection, "")
}

// BrowseApp opens the default hostname of app.
func (l *Launcher) BrowseApp(ctx context.Context, app string) error {
	return l.open(ctx, links.Browse(app), app, "")
}

func (l *Launcher) caseNumber(ctx context.Context) (string, error) {
	caseNumber, ok, err := l.resolver.Resolve(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		l.logger.Warnf("No case number, continuing with an empty one")
	}
	return caseNumber, nil
}

func (l *Launcher) open(ctx context.Context, url, appName, caseNumber string) error {
	tab, group, err := l.opener.Open(ctx, url, appName, caseNumber)
	if err != nil {
		return err
	}
	l.logger.Infof("Opened tab %d (group %d): %s", tab.ID, group, url)
	return nil
}
