package browser

import (
	"fmt"
)

// writeClipboardHTML puts html on the clipboard as rich text with a plain
// text alternative.
const writeClipboardHTML = `html => navigator.clipboard.write([new ClipboardItem({
	"text/html": new Blob([html], { type: "text/html" }),
	"text/plain": new Blob([html], { type: "text/plain" }),
})]).then(() => true)`

// clipboardPermissions are granted on the browser context so pages may
// write to the clipboard without a user gesture.
var clipboardPermissions = []string{"clipboard-read", "clipboard-write"}

// TextWriter writes plain text to the clipboard.
type TextWriter interface {
	WriteAll(text string) error
}

// Clipboard writes HTML to the system clipboard through the active page.
// When no page is open or the page refuses the write, the text goes to the
// fallback instead.
type Clipboard struct {
	session  *Session
	fallback TextWriter
}

// Clipboard returns a clipboard writing through s. fallback may be nil.
func (s *Session) Clipboard(fallback TextWriter) *Clipboard {
	return &Clipboard{session: s, fallback: fallback}
}

// WriteAll writes html as rich text.
func (c *Clipboard) WriteAll(html string) error {
	err := c.writeHTML(html)
	if err == nil {
		return nil
	}
	if c.fallback == nil {
		return err
	}

	c.session.logger.Warnf("Rich clipboard write failed, writing plain text: %v", err)
	return c.fallback.WriteAll(html)
}

func (c *Clipboard) writeHTML(html string) error {
	p, _, err := c.session.activePage()
	if err != nil {
		return err
	}
	if _, err := p.Evaluate(writeClipboardHTML, html); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
