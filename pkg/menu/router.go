package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/messaging"
)

var (
	// ErrNoSelection is returned when an item needing selected text is
	// clicked without any.
	ErrNoSelection = errors.New("no text selected")

	// ErrUnknownItem is returned for an id the router cannot act on.
	ErrUnknownItem = errors.New("unknown menu item")
)

// Actions are the link flows a click can start. *launcher.Launcher
// satisfies it.
type Actions interface {
	OpenAppLens(ctx context.Context, app string, hours int) error
	OpenObserver(ctx context.Context, app string) error
	OpenASC(ctx context.Context, selection string) error
	BrowseApp(ctx context.Context, app string) error
}

// Click is a menu click on a page.
type Click struct {
	ItemID        string
	ParentID      string
	SelectionText string
}

// Router turns clicks into actions and note messages.
type Router struct {
	actions Actions
	sender  messaging.Sender
	logger  *logging.Logger
}

// NewRouter creates a router. Note clicks are sent through sender.
func NewRouter(actions Actions, sender messaging.Sender, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Discard("menu")
	}
	return &Router{actions: actions, sender: sender, logger: logger}
}

// Click dispatches c.
func (r *Router) Click(ctx context.Context, c Click) error {
	r.logger.Debugf("Menu click %q (parent %q)", c.ItemID, c.ParentID)

	switch {
	case c.ItemID == BrowseID:
		if c.SelectionText == "" {
			return ErrNoSelection
		}
		return r.actions.BrowseApp(ctx, c.SelectionText)

	case c.ItemID == ObserverID:
		if c.SelectionText == "" {
			return ErrNoSelection
		}
		return r.actions.OpenObserver(ctx, c.SelectionText)

	case c.ItemID == ASCID:
		return r.actions.OpenASC(ctx, c.SelectionText)

	case c.ParentID == NoteID:
		return r.sender.Send(ctx, messaging.Note(c.ItemID))
	}

	hours, err := Hours(c.ItemID)
	if err != nil {
		return err
	}
	return r.actions.OpenAppLens(ctx, c.SelectionText, hours)
}

// Hours parses the window length of a relative App-lens item id: the
// second "_" separated field.
func Hours(id string) (int, error) {
	parts := strings.Split(id, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	hours, err := strconv.Atoi(parts[1])
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return hours, nil
}
