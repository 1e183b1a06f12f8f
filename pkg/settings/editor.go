// Package settings edits the template store on behalf of the settings
// surface and tells the menu owner about every change.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/messaging"
	"github.com/entrhq/caselens/pkg/templates"
)

// ErrEmptyName is returned when creating or renaming to a blank name.
var ErrEmptyName = errors.New("template name is required")

// Editor mutates templates. Every successful mutation is persisted and
// followed by a sync message.
type Editor struct {
	store  *templates.Store
	sender messaging.Sender
	newID  func(name string) string
	logger *logging.Logger
}

// NewEditor creates an editor over a loaded store. A nil sender skips the
// sync notification.
func NewEditor(store *templates.Store, sender messaging.Sender, logger *logging.Logger) *Editor {
	if logger == nil {
		logger = logging.Discard("settings")
	}
	return &Editor{
		store:  store,
		sender: sender,
		newID:  NewTemplateID,
		logger: logger,
	}
}

// NewTemplateID returns the id of a new template: its name and a random
// uuid.
func NewTemplateID(name string) string {
	return fmt.Sprintf("%s-%s", name, uuid.NewString())
}

// List returns every template, defaults first.
func (e *Editor) List() ([]templates.Template, error) {
	snapshot, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Sorted(), nil
}

// Get returns one template.
func (e *Editor) Get(id string) (templates.Template, error) {
	return e.store.Get(id)
}

// CanCreate reports whether another custom template fits.
func (e *Editor) CanCreate() bool {
	snapshot, err := e.store.Snapshot()
	if err != nil {
		return false
	}
	return snapshot.CustomCount() < templates.MaxCustomTemplates
}

// Create adds an empty custom template named name.
func (e *Editor) Create(ctx context.Context, name string) (templates.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return templates.Template{}, ErrEmptyName
	}

	t := templates.Template{ID: e.newID(name), Name: name}
	if err := e.store.Upsert(ctx, t); err != nil {
		return templates.Template{}, fmt.Errorf("failed to create template %q: %w", name, err)
	}
	e.logger.Infof("Created template %q", t.ID)
	return t, e.notify(ctx)
}

// Rename changes the display name of a custom template. The id is kept.
func (e *Editor) Rename(ctx context.Context, id, name string) (templates.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return templates.Template{}, ErrEmptyName
	}

	t, err := e.store.Get(id)
	if err != nil {
		return templates.Template{}, err
	}
	if t.IsDefault {
		return templates.Template{}, fmt.Errorf("%w: %s", templates.ErrDefaultTemplate, id)
	}

	t.Name = name
	if err := e.store.Upsert(ctx, t); err != nil {
		return templates.Template{}, fmt.Errorf("failed to rename template %q: %w", id, err)
	}
	return t, e.notify(ctx)
}

// Edit replaces the body of a template, default or custom, after tidying.
func (e *Editor) Edit(ctx context.Context, id, body string) (templates.Template, error) {
	t, err := e.store.Get(id)
	if err != nil {
		return templates.Template{}, err
	}

	tidy, err := Tidy(body)
	if err != nil {
		return templates.Template{}, err
	}

	t.Template = tidy
	if err := e.store.Upsert(ctx, t); err != nil {
		return templates.Template{}, fmt.Errorf("failed to save template %q: %w", id, err)
	}
	e.logger.Infof("Saved template %q (%d bytes)", id, len(tidy))
	return t, e.notify(ctx)
}

// Delete removes a custom template.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.logger.Infof("Deleted template %q", id)
	return e.notify(ctx)
}

// Import adds or replaces the templates of snapshot. Imported entries keep
// their ids; an id matching a default keeps it default and keeps its name.
// It stops at the first failure and reports how many were stored.
func (e *Editor) Import(ctx context.Context, snapshot templates.Snapshot) (int, error) {
	current, err := e.store.Snapshot()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, t := range snapshot.Sorted() {
		existing, ok := current[t.ID]
		t.IsDefault = ok && existing.IsDefault
		if t.IsDefault {
			t.Name = existing.Name
		}
		if t.Template, err = Tidy(t.Template); err != nil {
			break
		}
		if err = e.store.Upsert(ctx, t); err != nil {
			break
		}
		n++
	}

	if n > 0 {
		if nerr := e.notify(ctx); nerr != nil && err == nil {
			err = nerr
		}
	}
	if err != nil {
		return n, fmt.Errorf("import stopped after %d templates: %w", n, err)
	}
	return n, nil
}

func (e *Editor) notify(ctx context.Context) error {
	if e.sender == nil {
		return nil
	}
	if err := e.sender.Send(ctx, messaging.Sync()); err != nil {
		return fmt.Errorf("failed to notify template change: %w", err)
	}
	return nil
}
