package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/entrhq/caselens/pkg/config"
	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/menu"
	"github.com/entrhq/caselens/pkg/tabgroup"
	"github.com/entrhq/caselens/pkg/templates"
	"github.com/entrhq/caselens/pkg/tools/browser"
)

const shellPrompt = "caselens> "

var errQuit = errors.New("quit")

// surface is the part of the browser session the shell drives directly.
type surface interface {
	CreateTab(ctx context.Context, url string) (tabgroup.Tab, error)
	Navigate(ctx context.Context, url string) error
	Activate(tab tabgroup.TabID) error
	CloseTab(tab tabgroup.TabID) error
	ActiveURL() string
	Tabs() []browser.TabInfo
	Selection(ctx context.Context) (string, error)
}

// shell is the interactive command loop standing in for the page menu.
type shell struct {
	surface surface
	menu    *menu.Menu
	router  *menu.Router
	store   *templates.Store
	in      *bufio.Reader
	out     io.Writer
	logger  *logging.Logger

	// saveConfig persists configuration changes; nil skips saving.
	saveConfig func() error
}

// command is one parsed input line.
type command struct {
	Name string
	Args []string
}

// parseCommand splits line into a lower-cased command name and arguments.
func parseCommand(line string) (command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false
	}
	return command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// text joins the arguments from i on.
func (c command) text(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// Run reads commands until quit, end of input or cancellation. A failed
// command is reported and the loop continues.
func (s *shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' for commands.")
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.out, shellPrompt)

		line, err := s.in.ReadString('\n')
		if line != "" {
			if execErr := s.exec(ctx, line); execErr != nil {
				if errors.Is(execErr, errQuit) {
					return nil
				}
				s.logger.Warnf("Command %q failed: %v", strings.TrimSpace(line), execErr)
				fmt.Fprintf(s.out, "error: %v\n", execErr)
			}
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	cmd, ok := parseCommand(line)
	if !ok {
		return nil
	}

	switch cmd.Name {
	case "help", "?":
		s.printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	case "menu":
		return s.showMenu(ctx)
	case "click":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("usage: click <item-id> [text]")
		}
		return s.click(ctx, cmd.Args[0], cmd.text(1))
	case "applens":
		if len(cmd.Args) == 0 {
			return fmt.Errorf("usage: applens <hours> [app]")
		}
		hours, err := strconv.Atoi(cmd.Args[0])
		if err != nil || hours <= 0 {
			return fmt.Errorf("invalid hours %q", cmd.Args[0])
		}
		return s.click(ctx, fmt.Sprintf("Last_%d_hours", hours), cmd.text(1))
	case "observer":
		return s.click(ctx, menu.ObserverID, cmd.text(0))
	case "browse":
		return s.click(ctx, menu.BrowseID, cmd.text(0))
	case "asc":
		return s.click(ctx, menu.ASCID, cmd.text(0))
	case "note":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: note <template-id>")
		}
		return s.router.Click(ctx, menu.Click{ItemID: cmd.Args[0], ParentID: menu.NoteID})
	case "templates":
		return s.listTemplates()
	case "open":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: open <url>")
		}
		_, err := s.surface.CreateTab(ctx, cmd.Args[0])
		return err
	case "goto":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: goto <url>")
		}
		return s.surface.Navigate(ctx, cmd.Args[0])
	case "tabs":
		s.listTabs()
		return nil
	case "tab", "close":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: %s <tab-id>", cmd.Name)
		}
		id, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			return fmt.Errorf("invalid tab id %q", cmd.Args[0])
		}
		if cmd.Name == "close" {
			return s.surface.CloseTab(tabgroup.TabID(id))
		}
		return s.surface.Activate(tabgroup.TabID(id))
	case "grouping":
		return s.setGrouping(cmd.text(0))
	}

	return fmt.Errorf("unknown command %q (try 'help')", cmd.Name)
}

// click dispatches a menu click. Without explicit text the page selection
// is used.
func (s *shell) click(ctx context.Context, id, text string) error {
	c := menu.Click{ItemID: id, SelectionText: text}
	if item, ok := s.menu.Find(id); ok {
		c.ParentID = item.ParentID
	}

	if c.SelectionText == "" {
		selection, err := s.surface.Selection(ctx)
		if err != nil && !errors.Is(err, browser.ErrNoActiveTab) {
			return err
		}
		c.SelectionText = strings.TrimSpace(selection)
	}

	return s.router.Click(ctx, c)
}

func (s *shell) showMenu(ctx context.Context) error {
	selection, err := s.surface.Selection(ctx)
	if err != nil && !errors.Is(err, browser.ErrNoActiveTab) {
		return err
	}

	items := s.menu.Visible(s.surface.ActiveURL(), strings.TrimSpace(selection) != "")
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No menu items for this page.")
		return nil
	}
	for _, item := range items {
		indent := ""
		if item.ParentID != "" {
			indent = "  "
		}
		if item.ParentID == menu.NoteID {
			indent = "    "
		}
		fmt.Fprintf(s.out, "%s%-24s %s\n", indent, item.ID, item.Title)
	}
	return nil
}

func (s *shell) listTemplates() error {
	snapshot, err := s.store.Snapshot()
	if err != nil {
		return err
	}
	for _, t := range snapshot.Sorted() {
		marker := " "
		if t.IsDefault {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %-40s %s\n", marker, t.ID, t.Name)
	}
	return nil
}

func (s *shell) listTabs() {
	tabs := s.surface.Tabs()
	if len(tabs) == 0 {
		fmt.Fprintln(s.out, "No open tabs.")
		return
	}
	for _, tab := range tabs {
		marker := " "
		if tab.Active {
			marker = ">"
		}
		group := ""
		if tab.Group != "" {
			group = fmt.Sprintf(" [%s]", tab.Group)
		}
		fmt.Fprintf(s.out, "%s %d %s%s\n", marker, tab.ID, tab.URL, group)
	}
}

func (s *shell) setGrouping(mode string) error {
	section := config.GetGrouping()
	if section == nil {
		return fmt.Errorf("configuration not initialized")
	}

	switch mode {
	case "off":
		section.SetGrouping(false, false)
	case "on", "app":
		section.SetGrouping(true, false)
	case "case":
		section.SetGrouping(true, true)
	case "":
		fmt.Fprintf(s.out, "grouping=%t case=%t\n", section.GroupingEnabled(), section.GroupByCaseNumber())
		return nil
	default:
		return fmt.Errorf("usage: grouping [on|off|case]")
	}

	if s.saveConfig != nil {
		return s.saveConfig()
	}
	return nil
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  menu                    Show the menu for the active page
  click <id> [text]       Click a menu item (text defaults to the page selection)
  applens <hours> [app]   Open App-lens for the last hours hours
  observer [app]          Open the Observer dashboard
  browse [app]            Open the app's default hostname
  asc [group]             Open Azure Support Center for the case
  note <template-id>      Copy a filled template to the clipboard
  templates               List templates
  open <url>              Open a new tab
  goto <url>              Navigate the active tab
  tabs                    List tabs
  tab <id>                Activate a tab
  close <id>              Close a tab
  grouping [on|off|case]  Show or change tab grouping
  quit                    Exit`)
}
