package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/caselens/pkg/casenumber"
	"github.com/entrhq/caselens/pkg/compiler"
	"github.com/entrhq/caselens/pkg/links"
	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/templates"
	"github.com/entrhq/caselens/pkg/verbatim"
)

const (
	// NoCaseAlert is shown when an issue note is requested off a case page.
	NoCaseAlert = "You are not on a case page. Please open a case and try again."

	// CaseNumberDefault fills {caseNumber} of the quick IR email when no
	// case number is available.
	CaseNumberDefault = "**ENTER CASE NUMBER**"
)

// ErrNoCaseNumber is returned when an issue note is requested without a
// case number. The user has already been alerted.
var ErrNoCaseNumber = errors.New("no case number available")

// TemplateSource looks templates up by id. *templates.Store satisfies it.
type TemplateSource interface {
	Get(id string) (templates.Template, error)
}

// Composer renders templates against the active page.
type Composer struct {
	source    TemplateSource
	reader    page.Reader
	dialogs   page.Dialogs
	clipboard Clipboard
	resolver  *casenumber.Resolver
	extractor *verbatim.Extractor
	now       func() time.Time
	logger    *logging.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock sets the time source used for dates and windows.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// WithLogger sets the composer's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// NewComposer creates a composer reading page values through reader and
// asking the user through dialogs.
func NewComposer(source TemplateSource, reader page.Reader, dialogs page.Dialogs, clip Clipboard, opts ...Option) *Composer {
	c := &Composer{
		source:    source,
		reader:    reader,
		dialogs:   dialogs,
		clipboard: clip,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard("notes")
	}
	c.resolver = casenumber.NewResolver(reader, dialogs, c.logger)
	c.extractor = verbatim.NewExtractor(c.logger, c.now)
	return c
}

// Render compiles the template with the given id. The template is looked up
// before any page value is read.
func (c *Composer) Render(ctx context.Context, id string) (string, error) {
	tmpl, err := c.source.Get(id)
	if err != nil {
		return "", err
	}

	kind := KindFor(id)
	vars, err := c.Variables(ctx, kind)
	if err != nil {
		return "", err
	}

	b := compiler.NewBuilder(tmpl.Template)
	b.Variables().SetAll(vars)
	c.logger.Debugf("Rendered %s note %q with %d variables", kind, id, len(vars))
	return b.Compile(), nil
}

// Copy renders the template and writes it to the clipboard.
func (c *Composer) Copy(ctx context.Context, id string) (string, error) {
	html, err := c.Render(ctx, id)
	if err != nil {
		return "", err
	}
	if c.clipboard == nil {
		return html, nil
	}
	if err := c.clipboard.WriteAll(html); err != nil {
		return "", fmt.Errorf("failed to write note to clipboard: %w", err)
	}
	c.logger.Infof("Copied note %q to clipboard", id)
	return html, nil
}

// Variables builds the initial variable set for kind. Values are already
// final; defaults have been applied.
func (c *Composer) Variables(ctx context.Context, kind Kind) (map[string]string, error) {
	vars := compiler.Variables{}

	switch kind {
	case KindIssue:
		if err := c.issueVariables(ctx, vars); err != nil {
			return nil, err
		}
	case KindFollowUp:
		today := c.now()
		vars["date"] = today.Format(DateLayout)
		vars["next_followup_date"] = NextFollowUpDate(today).Format(DateLayout)
	case KindQuickIR:
		caseNumber, _, err := c.resolver.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		vars.Set("caseNumber", caseNumber, CaseNumberDefault)
	}

	return vars, nil
}

func (c *Composer) issueVariables(ctx context.Context, vars compiler.Variables) error {
	fields, err := c.extractor.FromPage(ctx, c.reader)
	if err != nil {
		return err
	}

	caseNumber, ok, err := c.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if !ok {
		if err := c.dialogs.Alert(ctx, NoCaseAlert); err != nil {
			return fmt.Errorf("failed to show alert: %w", err)
		}
		return ErrNoCaseNumber
	}

	vars["asc"] = links.Anchor(links.ASC(caseNumber), "ASC")
	if fields.Empty() {
		c.logger.Warnf("No usable verbatim, issue note will only carry the ASC link")
		return nil
	}

	vars.SetAll(fields.Map())
	vars["observer"] = links.Anchor(links.Observer(fields.Site), "Observer")
	vars["applens"] = links.Anchor(links.AppLens(fields.Site, c.incidentWindow(fields), caseNumber), "Applens")
	return nil
}

// incidentWindow anchors the App-lens window on the incident time, or on
// now when the verbatim's date is missing or unreadable.
func (c *Composer) incidentWindow(fields verbatim.Fields) links.Window {
	if !fields.DateFallback() {
		if t, err := links.ParseIncidentTime(fields.Date); err == nil {
			return links.Anchored(t)
		}
		c.logger.Warnf("Unreadable incident time %q, anchoring on now", fields.Date)
	}
	return links.Anchored(c.now())
}
