// Package main provides the caselens command line application.
// It drives a Chromium window for case work: opening diagnostic tools for
// the active case in grouped tabs and copying filled note templates to the
// clipboard. The -settings mode opens the template editor instead.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/entrhq/caselens/pkg/config"
	"github.com/entrhq/caselens/pkg/executor/tui"
	"github.com/entrhq/caselens/pkg/launcher"
	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/menu"
	"github.com/entrhq/caselens/pkg/messaging"
	"github.com/entrhq/caselens/pkg/notes"
	"github.com/entrhq/caselens/pkg/page"
	"github.com/entrhq/caselens/pkg/settings"
	"github.com/entrhq/caselens/pkg/storage"
	"github.com/entrhq/caselens/pkg/tabgroup"
	"github.com/entrhq/caselens/pkg/templates"
	"github.com/entrhq/caselens/pkg/tools/browser"
)

const version = "0.1.0" // Version of caselens

// Config holds the application configuration
type Config struct {
	ConfigPath  string
	StoragePath string
	ExportPath  string
	ImportPath  string
	StartURL    string
	ShowVersion bool
	Settings    bool
	Headless    bool
	Install     bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("caselens v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ConfigPath, "config", "", "Path to config file (default: ~/.caselens/config.json)")
	flag.StringVar(&config.StoragePath, "storage", "", "Path to template storage (default: ~/.caselens/storage.json)")
	flag.StringVar(&config.ExportPath, "export", "", "Write all templates to a YAML file and exit")
	flag.StringVar(&config.ImportPath, "import", "", "Merge custom templates from a YAML file and exit")
	flag.StringVar(&config.StartURL, "url", "", "Page to open at startup (overrides the config file)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&config.Settings, "settings", false, "Open the template editor")
	flag.BoolVar(&config.Headless, "headless", false, "Run the browser without a window")
	flag.BoolVar(&config.Install, "install", false, "Install the Playwright browser and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "caselens - case tools and note templates for the support browser\n\n")
		fmt.Fprintf(os.Stderr, "Usage: caselens [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  caselens                                 # Start a browser session\n")
		fmt.Fprintf(os.Stderr, "  caselens -url https://onesupport.crm.dynamics.com/\n")
		fmt.Fprintf(os.Stderr, "  caselens -settings                       # Edit templates\n")
		fmt.Fprintf(os.Stderr, "  caselens -export templates.yaml\n")
		fmt.Fprintf(os.Stderr, "  caselens -import templates.yaml\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	modes := 0
	for _, set := range []bool{c.Settings, c.ExportPath != "", c.ImportPath != "", c.Install} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("-settings, -export, -import and -install are mutually exclusive")
	}

	if c.ImportPath != "" {
		if _, err := os.Stat(c.ImportPath); err != nil {
			return fmt.Errorf("import file error: %w", err)
		}
	}
	return nil
}

// run executes the main application logic
func run(ctx context.Context, cfg *Config) error {
	if cfg.Install {
		return browser.Install()
	}

	if err := config.Initialize(cfg.ConfigPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.MustLogger("caselens")
	defer logger.Close()

	storagePath, err := resolveStoragePath(cfg.StoragePath)
	if err != nil {
		return err
	}
	kv, err := storage.NewFileKV(storagePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	store := templates.NewStore(kv, logging.MustLogger("templates"))
	if err := store.Init(ctx); err != nil {
		return err
	}

	bus := messaging.NewBus(logging.MustLogger("messaging"))
	// Replaced by the menu in a browser session. Other running sessions see
	// the change on their next refresh.
	bus.Handle(messaging.TypeSync, func(ctx context.Context, _ messaging.Message) error {
		logger.Debugf("Templates changed, running sessions reload them on their next refresh")
		return nil
	})
	editor := settings.NewEditor(store, bus, logging.MustLogger("settings"))

	switch {
	case cfg.ExportPath != "":
		return exportTemplates(store, cfg.ExportPath)
	case cfg.ImportPath != "":
		return importTemplates(ctx, editor, cfg.ImportPath)
	case cfg.Settings:
		return tui.NewExecutor(editor).Run(ctx)
	}

	return runSession(ctx, cfg, store, bus, logger)
}

// runSession starts the browser and the interactive command loop.
func runSession(ctx context.Context, cfg *Config, store *templates.Store, bus *messaging.Bus, logger *logging.Logger) error {
	headless, startURL, casePattern := config.GetBrowser().Settings()
	if cfg.Headless {
		headless = true
	}
	if cfg.StartURL != "" {
		startURL = cfg.StartURL
	}

	session, err := browser.Start(ctx, browser.SessionOptions{
		Headless: headless,
		StartURL: startURL,
	}, logging.MustLogger("browser"))
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	in := bufio.NewReader(os.Stdin)
	dialogs := page.NewTerminal(in, os.Stdout)

	m := menu.New(store, casePattern, logging.MustLogger("menu"))
	snapshot, err := store.Snapshot()
	if err != nil {
		return err
	}
	m.Build(snapshot)

	coordinator := tabgroup.NewCoordinator(
		session,
		config.GetGrouping(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		logging.MustLogger("tabgroup"),
	)
	links := launcher.New(session, dialogs, coordinator, nil, logging.MustLogger("launcher"))
	composer := notes.NewComposer(store, session, dialogs, session.Clipboard(notes.SystemClipboard{}),
		notes.WithLogger(logging.MustLogger("notes")))

	bus.Handle(messaging.TypeSync, m.Sync)
	bus.Handle(messaging.TypeNote, func(ctx context.Context, msg messaging.Message) error {
		if _, err := composer.Copy(ctx, msg.NoteID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Copied %s to the clipboard\n", msg.NoteID)
		return nil
	})

	poller := templates.NewPoller(store, config.GetSync().Interval(), logging.MustLogger("templates"),
		templates.WithOnChange(m.Build))
	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	// Unblock a pending read on shutdown
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	sh := &shell{
		surface:    session,
		menu:       m,
		router:     menu.NewRouter(links, bus, logging.MustLogger("router")),
		store:      store,
		in:         in,
		out:        os.Stdout,
		logger:     logger,
		saveConfig: config.Global().SaveAll,
	}
	return sh.Run(ctx)
}

func resolveStoragePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".caselens", "storage.json"), nil
}

func exportTemplates(store *templates.Store, path string) error {
	snapshot, err := store.Snapshot()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := templates.Export(f, snapshot); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Printf("Exported %d templates to %s\n", len(snapshot), path)
	return nil
}

func importTemplates(ctx context.Context, editor *settings.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	snapshot, err := templates.Import(f)
	if err != nil {
		return err
	}

	n, err := editor.Import(ctx, snapshot)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d templates from %s\n", n, path)
	return nil
}
