// Package links builds the diagnostic tool URLs and their time windows.
package links

import (
	"fmt"
	"strings"
	"time"
)

const (
	// IngestionLag is subtracted from "now" before a relative window so the
	// most recent, not yet ingested, telemetry is excluded.
	IngestionLag = 16 * time.Minute

	// IncidentSpan is the half-width of a window anchored on an incident.
	IncidentSpan = 2 * time.Hour

	// TimestampLayout renders UTC timestamps with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	appLensBase  = "https://applens.trafficmanager.net/sites/"
	observerBase = "https://wawsobserver.azurewebsites.windows.net/sites/"
	ascBase      = "https://azuresupportcenter.msftcloudes.com/solutionexplorer?SourceId=OneSupport&srId="
)

// Window is a [Start, End] time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Relative returns the window of the last hours hours, ending IngestionLag
// before now.
func Relative(now time.Time, hours int) Window {
	end := now.Add(-IngestionLag)
	return Window{
		Start: end.Add(-time.Duration(hours) * time.Hour),
		End:   end,
	}
}

// Anchored returns the window of IncidentSpan on either side of incident.
func Anchored(incident time.Time) Window {
	return Window{
		Start: incident.Add(-IncidentSpan),
		End:   incident.Add(IncidentSpan),
	}
}

// incidentLayouts are tried in order. Layouts without a zone are UTC.
var incidentLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseIncidentTime parses the free-form ProblemStartTime of a verbatim.
func ParseIncidentTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range incidentLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized incident time %q", s)
}

// FormatTimestamp renders t in UTC as TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// AppLens returns the App-lens URL for app over w. The case number is
// embedded as given, empty included.
func AppLens(app string, w Window, caseNumber string) string {
	return fmt.Sprintf("%s%s?startTime=%s&endTime=%s&caseNumber=%s",
		appLensBase, app, FormatTimestamp(w.Start), FormatTimestamp(w.End), caseNumber)
}

// Observer returns the Observer URL for app.
func Observer(app string) string {
	return observerBase + app
}

// ASC returns the Azure Support Center URL for the case.
func ASC(caseNumber string) string {
	return ascBase + caseNumber
}

// Browse returns the default hostname URL of app.
func Browse(app string) string {
	return fmt.Sprintf("https://%s.azurewebsites.net/", app)
}

// Anchor returns an HTML link to url labelled name, or url when name is
// empty.
func Anchor(url, name string) string {
	if name == "" {
		name = url
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, url, name)
}
