package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/docwheel/internal/edit"
	"github.com/dgallion1/docwheel/internal/navigate"
	"github.com/dgallion1/docwheel/internal/render"
	"github.com/dgallion1/docwheel/internal/wheel"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputEdit
	inputFind
)

// chromeRows is the status line plus the input line.
const chromeRows = 2

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5484d")).Bold(true)
)

var navKeys = map[string]navigate.Direction{
	"left": navigate.Left, "h": navigate.Left,
	"right": navigate.Right, "l": navigate.Right,
	"up": navigate.Up, "k": navigate.Up,
	"down": navigate.Down, "j": navigate.Down,
}

type model struct {
	ctx     context.Context
	view    *wheel.View
	log     *slog.Logger
	palette render.Palette

	width, height int

	input   textinput.Model
	mode    inputMode
	status  string
	failure bool
}

func newModel(ctx context.Context, view *wheel.View, log *slog.Logger) model {
	in := textinput.New()
	in.CharLimit = 200
	in.Width = 40
	return model{
		ctx:     ctx,
		view:    view,
		log:     log,
		palette: render.DefaultPalette(),
		input:   in,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		m.view.Resize(float64(m.width), float64(m.canvasRows())*cellAspect)
		return m, nil

	case tea.MouseMsg:
		if m.mode != inputNone || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.Y >= m.canvasRows() {
			return m, nil
		}
		m.view.Click(toSurface(msg.X, msg.Y))
		m.setStatus("")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case inputEdit:
			return m.updateEdit(msg)
		case inputFind:
			return m.updateFind(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := navKeys[key]; ok {
		m.view.Navigate(d)
		m.setStatus("")
		return m, nil
	}
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "e":
		return m.begin(m.view.BeginRename)
	case "c":
		return m.begin(m.view.BeginInsertChild)
	case "s":
		return m.begin(m.view.BeginInsertSibling)
	case "/":
		m.mode = inputFind
		m.input.Prompt = "find: "
		m.input.SetValue("")
		return m, m.input.Focus()
	case "r":
		if err := m.view.Reload(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		m.setStatus("reloaded")
	case "t":
		m.view.Toggle()
		m.setStatus("")
	case "esc":
		m.setStatus("")
	}
	return m, nil
}

func (m model) begin(start func() (*edit.Session, error)) (tea.Model, tea.Cmd) {
	s, err := start()
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.mode = inputEdit
	m.input.Prompt = s.Mode.String() + ": "
	m.input.SetValue(s.Pending)
	m.input.CursorEnd()
	m.setStatus("")
	return m, m.input.Focus()
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view.Cancel()
		m.closeInput()
		m.setStatus("cancelled")
		return m, nil
	case "enter":
		err := m.view.Commit(m.ctx, m.input.Value())
		if errors.Is(err, edit.ErrInvalidTitle) {
			m.fail(err)
			return m, nil
		}
		m.closeInput()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.setStatus("saved")
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.view.SetPending(m.input.Value())
	return m, cmd
}

func (m model) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.closeInput()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.view.Find(m.input.Value())
	return m, cmd
}

func (m *model) closeInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.failure = false
}

func (m *model) fail(err error) {
	m.log.Warn("command failed", "document", m.view.Path(), "error", err)
	m.status = err.Error()
	m.failure = true
}

func (m model) canvasRows() int {
	return max(m.height-chromeRows, 0)
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	var body string
	if m.view.Visible() {
		grid := raster(m.view.Frame(), m.view.SelectedIndex(), m.palette, m.view.Options(), m.width, m.canvasRows())
		body = paint(grid, m.palette)
	} else {
		body = lipgloss.Place(m.width, m.canvasRows(), lipgloss.Center, lipgloss.Center, statusStyle.Render("hidden (t to show)"))
	}

	bottom := ""
	if m.mode != inputNone {
		bottom = m.input.View()
	} else if m.status != "" {
		style := statusStyle
		if m.failure {
			style = errorStyle
		}
		bottom = style.Render(runewidth.Truncate(m.status, m.width, "…"))
	}
	return body + "\n" + m.statusLine() + "\n" + bottom
}

func (m model) statusLine() string {
	line := fmt.Sprintf("%s  [%s]", m.view.Path(), m.view.State())
	if sel, ok := m.view.Selection(); ok {
		line += "  " + sel.Title
	}
	line += "  arrows: move  e: rename  c: child  s: sibling  /: find  r: reload  t: toggle  q: quit"
	return statusStyle.Render(runewidth.Truncate(line, m.width, "…"))
}
