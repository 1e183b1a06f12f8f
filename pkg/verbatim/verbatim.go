// Package verbatim extracts incident metadata from the customer statement
// ("verbatim") pasted into a case.
package verbatim

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/page"
)

const (
	// NoSite is the site value used when no resource URI is found.
	NoSite = "No Site found"

	// noDateSuffix marks a date that was substituted with the current time.
	noDateSuffix = " (No Date found)"
)

var (
	datePattern     = regexp.MustCompile(`ProblemStartTime:\s*(?P<date>.+)`)
	resourcePattern = regexp.MustCompile(`ResourceUri:\s*/subscriptions/(?P<subscription>.+)/resourceGroups/(?P<resourceGroup>.+)/providers/Microsoft\.Web/sites/(?P<site>.+)`)
)

// Fields are the values extracted from a verbatim. The zero value is the
// "nothing usable" result.
type Fields struct {
	Date          string
	Site          string
	Subscription  string
	ResourceGroup string
}

// Empty reports whether f carries no usable data.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// Map returns the fields keyed by their template placeholder names. Unset
// optional fields are omitted.
func (f Fields) Map() map[string]string {
	out := map[string]string{}
	if f.Date != "" {
		out["date"] = f.Date
	}
	if f.Site != "" {
		out["site"] = f.Site
	}
	if f.Subscription != "" {
		out["subscription"] = f.Subscription
	}
	if f.ResourceGroup != "" {
		out["resourceGroup"] = f.ResourceGroup
	}
	return out
}

// DateFallback reports whether Date was substituted because the verbatim
// had no ProblemStartTime.
func (f Fields) DateFallback() bool {
	return strings.HasSuffix(f.Date, noDateSuffix)
}

// Extractor parses verbatims, logging pattern misses.
type Extractor struct {
	logger *logging.Logger
	now    func() time.Time
}

// NewExtractor creates an extractor. A nil now uses time.Now.
func NewExtractor(logger *logging.Logger, now func() time.Time) *Extractor {
	if logger == nil {
		logger = logging.Discard("verbatim")
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{logger: logger, now: now}
}

// Extract parses raw.
//
// A missing date is replaced by the current time marked "(No Date found)".
// A missing site is replaced by NoSite, and a result whose site is NoSite
// is returned as the empty Fields: a degraded date alone is usable, a
// missing site is not.
func (e *Extractor) Extract(raw string) Fields {
	fields := e.parse(raw)
	if fields.Site == NoSite {
		return Fields{}
	}
	return fields
}

// FromPage reads the verbatim from the active page and extracts it. An
// absent verbatim element yields the empty Fields.
func (e *Extractor) FromPage(ctx context.Context, reader page.Reader) (Fields, error) {
	raw, ok, err := reader.Verbatim(ctx)
	if err != nil {
		return Fields{}, fmt.Errorf("failed to read verbatim: %w", err)
	}
	if !ok {
		e.logger.Warnf("No verbatim element on page.")
		return Fields{}, nil
	}
	return e.Extract(raw), nil
}

func (e *Extractor) parse(raw string) Fields {
	var fields Fields

	if m := datePattern.FindStringSubmatch(raw); m != nil {
		fields.Date = strings.TrimSpace(m[datePattern.SubexpIndex("date")])
	}
	if fields.Date == "" {
		e.logger.Warnf("No Date found.")
		fields.Date = e.now().UTC().Format(time.RFC1123) + noDateSuffix
	}

	if m := resourcePattern.FindStringSubmatch(raw); m != nil {
		fields.Subscription = strings.TrimSpace(m[resourcePattern.SubexpIndex("subscription")])
		fields.ResourceGroup = strings.TrimSpace(m[resourcePattern.SubexpIndex("resourceGroup")])
		fields.Site = strings.TrimSpace(m[resourcePattern.SubexpIndex("site")])
	}
	if fields.Site == "" {
		e.logger.Warnf("No Site found.")
		fields.Site = NoSite
		fields.Subscription = ""
		fields.ResourceGroup = ""
	}

	return fields
}

// Extract parses raw with a non-logging extractor anchored at now.
func Extract(raw string, now time.Time) Fields {
	return NewExtractor(nil, func() time.Time { return now }).Extract(raw)
}
