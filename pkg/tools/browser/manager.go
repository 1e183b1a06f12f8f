package browser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/caselens/pkg/logging"
)

// Install downloads the Playwright driver and Chromium when missing.
func Install() error {
	// Discard output to avoid interfering with the terminal
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Start launches Chromium and returns a session over one browser context.
// The start URL, when set, is opened in the first tab.
func Start(ctx context.Context, opts SessionOptions, logger *logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard("browser")
	}

	if err := Install(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(&playwright.RunOptions{Stdout: io.Discard, Stderr: io.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	// Set defaults
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	if err := browserCtx.GrantPermissions(clipboardPermissions); err != nil {
		logger.Warnf("Clipboard permissions not granted, notes will be copied as plain text: %v", err)
	}

	newPage := func() (pageAPI, error) {
		p, err := browserCtx.NewPage()
		if err != nil {
			return nil, err
		}
		p.SetDefaultTimeout(opts.Timeout)
		return p, nil
	}

	closeFn := func() error {
		var errs []error
		if err := browserCtx.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		return errors.Join(errs...)
	}

	session := newSession(newPage, closeFn, logger)
	logger.Infof("Browser started (headless=%v)", opts.Headless)

	if opts.StartURL != "" {
		if _, err := session.CreateTab(ctx, opts.StartURL); err != nil {
			_ = session.Close()
			return nil, err
		}
	}
	return session, nil
}
