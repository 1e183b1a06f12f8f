// Package browser drives a Chromium window through Playwright for caselens.
//
// A Session is the browser host of the rest of the module:
//
//   - tabgroup.Host: every tool link opens a new page, and pages are grouped
//     by an embedded tabgroup.Registry since Playwright has no tab groups.
//   - page.Reader: the case header and the customer statement are read from
//     the active page with the fixed case page selectors.
//   - notes.Clipboard: Clipboard writes rendered notes as rich HTML through
//     the active page.
//
// Dialogs are not shown in the browser. Playwright dismisses page dialogs
// on its own, so prompts and alerts go through the terminal instead.
//
// # Session Lifecycle
//
//  1. Start installs the Playwright driver if needed, launches Chromium and
//     opens the configured start page.
//  2. Tools open tabs; the user switches the active tab from the command line.
//  3. Close closes the browser and stops the driver.
package browser
