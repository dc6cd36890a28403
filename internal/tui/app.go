package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"imgbom/internal/bom"
	"imgbom/internal/plan"
	"imgbom/internal/tui/components"
	"imgbom/internal/tui/styles"
)

// Mode represents the application mode
type Mode int

const (
	ModeLoading Mode = iota
	ModeReady
	ModeError
)

// header and status bar lines around the viewport
const chromeHeight = 7

// KeyMap defines the viewer key bindings. Scrolling uses the viewport's own
// bindings.
type KeyMap struct {
	Quit   key.Binding
	Reload key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// App is the inspect viewer model
type App struct {
	ctx  context.Context
	load Loader
	keys KeyMap

	spinner  components.Spinner
	viewport viewport.Model

	mode   Mode
	result *Inspection
	err    error

	width  int
	height int
	ready  bool
}

// Messages
type (
	inspectDoneMsg struct{ result *Inspection }
	inspectErrMsg  struct{ err error }
)

// NewApp creates a viewer that runs load on start and on every reload
func NewApp(ctx context.Context, load Loader) *App {
	return &App{
		ctx:      ctx,
		load:     load,
		keys:     DefaultKeyMap(),
		spinner:  components.NewSpinner("Validating bom files..."),
		viewport: viewport.New(80, 20),
		mode:     ModeLoading,
		width:    80,
		height:   20 + chromeHeight,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick(), a.inspect)
}

func (a *App) inspect() tea.Msg {
	result, err := a.load(a.ctx)
	if err != nil {
		return inspectErrMsg{err}
	}
	return inspectDoneMsg{result}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-chromeHeight, 1)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Reload):
			if a.mode == ModeLoading {
				return a, nil
			}
			a.mode = ModeLoading
			a.err = nil
			a.spinner.SetMessage("Revalidating bom files...")
			return a, tea.Batch(a.spinner.Tick(), a.inspect)
		}
		if a.mode == ModeReady {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case inspectDoneMsg:
		a.mode = ModeReady
		a.result = msg.result
		a.viewport.SetContent(renderPlans(msg.result))
		a.viewport.GotoTop()
		return a, nil

	case inspectErrMsg:
		a.mode = ModeError
		a.err = msg.err
		return a, nil
	}

	if a.mode == ModeLoading {
		return a, a.spinner.Update(msg)
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("imgbom inspect"))
	if a.result != nil {
		b.WriteString("  ")
		b.WriteString(styles.Muted.Render(a.result.Root))
	}
	b.WriteString("\n")

	switch a.mode {
	case ModeLoading:
		b.WriteString(a.spinner.View())
		b.WriteString("\n")
	case ModeError:
		b.WriteString(renderError(a.err))
		b.WriteString("\n")
	case ModeReady:
		b.WriteString(renderSummary(a.result))
		b.WriteString("\n")
		b.WriteString(a.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderStatusBar() string {
	pairs := []string{"r", "reload", "q", "quit"}
	if a.mode == ModeReady {
		pairs = append([]string{"↑/↓", "scroll", "pgup/pgdn", "page"}, pairs...)
	}
	return styles.FormatHelp(pairs...)
}

func renderSummary(in *Inspection) string {
	createDirs, copyDirs, copyFiles := in.Totals()
	return styles.InfoBox.Render(styles.FormatInfo(
		"bom files", fmt.Sprint(len(in.Entries)),
		"create", fmt.Sprintf("%d dirs", createDirs),
		"copy", fmt.Sprintf("%d dirs, %d files", copyDirs, copyFiles),
	))
}

func renderError(err error) string {
	title := "Validation failed"
	if kind := bom.KindOf(err); kind != bom.KindUnknown {
		title = fmt.Sprintf("Validation failed: %s", kind)
	}
	return styles.ErrorMsg.Render(title) + "\n" + err.Error()
}

// renderPlans lists every manifest's actions in execution order
func renderPlans(in *Inspection) string {
	var b strings.Builder
	for i, e := range in.Entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.ManifestHeader.Render(e.Manifest))
		b.WriteString("\n")

		if e.Plan.Len() == 0 {
			b.WriteString(styles.Muted.Render("  nothing to stage"))
			b.WriteString("\n")
			continue
		}

		if dirs := e.Plan.CreateDirList(); len(dirs) > 0 {
			b.WriteString(styles.Section.Render("create dirs"))
			b.WriteString("\n")
			for _, d := range dirs {
				fmt.Fprintf(&b, "  %s %s\n", styles.ActionCreate, styles.Source.Render(d))
			}
		}
		writeCopies(&b, "copy dirs", e.Plan.CopyDirList())
		writeCopies(&b, "copy files", e.Plan.CopyFileList())
	}
	return b.String()
}

func writeCopies(b *strings.Builder, title string, copies []plan.Copy) {
	if len(copies) == 0 {
		return
	}
	b.WriteString(styles.Section.Render(title))
	b.WriteString("\n")
	for _, c := range copies {
		fmt.Fprintf(b, "  %s %s %s\n",
			styles.Source.Render(c.From), styles.ActionCopy, styles.Destination.Render(c.To))
	}
}

// Run starts the viewer and blocks until it exits
func Run(ctx context.Context, load Loader) error {
	app := NewApp(ctx, load)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
