package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nconklindev/roster/internal/logging"
	"github.com/nconklindev/roster/internal/pipeline"
	"github.com/nconklindev/roster/internal/source"
	"github.com/nconklindev/roster/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	placeholder     = "Add Excel file link"
	maxColumnWidth  = 24
	defaultTimeout  = 30 * time.Second
	minPickerHeight = 5
)

type state int

const (
	stateInput state = iota
	stateBrowse
	stateLoading
	statePreview
)

// Loader runs one load of a source spec.
type Loader interface {
	Run(ctx context.Context, spec string) (*types.Preview, error)
}

// Settings configures the initial model.
type Settings struct {
	// Source pre-fills the input field.
	Source string
	// StartDir is where the file browser opens; empty means the working directory.
	StartDir string
	// Timeout bounds each load.
	Timeout time.Duration
}

// Model is the whole application state. It is passed through Update by
// value; nothing lives in package globals.
type Model struct {
	state      state
	loader     Loader
	timeout    time.Duration
	input      textinput.Model
	filepicker filepicker.Model
	spinner    spinner.Model
	table      table.Model
	loadID     string
	cancel     context.CancelFunc
	loading    string
	preview    *types.Preview
	err        error
	width      int
	height     int
}

type loadedMsg struct {
	id      string
	preview *types.Preview
	err     error
}

var errCancelled = errors.New("load cancelled")

func InitialModel(loader Loader, s Settings) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 2048
	ti.Width = 50
	ti.PromptStyle = SelectedStyle
	ti.SetValue(s.Source)
	ti.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".csv"}
	fp.CurrentDirectory = s.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C6EF5"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F7FD5"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F7FD5"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C6EF5")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SelectedStyle

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return Model{
		state:      stateInput,
		loader:     loader,
		timeout:    timeout,
		input:      ti,
		filepicker: fp,
		spinner:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, help text and padding.
		height := msg.Height - 14
		if height < minPickerHeight {
			height = minPickerHeight
		}
		m.filepicker.SetHeight(height)

		if w := msg.Width/2 - 4; w > 20 {
			m.input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopLoad()
			return m, tea.Quit
		}

		switch m.state {
		case stateInput:
			switch msg.String() {
			case "esc":
				return m, tea.Quit
			case "enter":
				return m.startLoad()
			case "ctrl+o":
				m.state = stateBrowse
				m.input.Blur()
				return m, m.filepicker.Init()
			}

		case stateBrowse:
			if msg.String() == "esc" {
				return m.backToInput()
			}

		case stateLoading:
			if msg.String() == "esc" {
				m.stopLoad()
				m.err = errCancelled
				return m.backToInput()
			}
			return m, nil

		case statePreview:
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "n":
				m.err = nil
				return m.backToInput()
			}
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case loadedMsg:
		if msg.id != m.loadID {
			// A cancelled or superseded load.
			return m, nil
		}
		m.stopLoad()

		if msg.err != nil {
			m.err = msg.err
			return m.backToInput()
		}

		m.err = nil
		m.preview = msg.preview
		m.table = newPreviewTable(msg.preview)
		m.state = statePreview
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.state {
	case stateInput:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stateBrowse:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.input.SetValue(path)
			m.input.CursorEnd()
			return m.backToInput()
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) backToInput() (Model, tea.Cmd) {
	m.state = stateInput
	return m, m.input.Focus()
}

// startLoad runs the loader off the UI goroutine with a bounded timeout.
func (m Model) startLoad() (Model, tea.Cmd) {
	spec := m.input.Value()

	m.loadID = pipeline.NewLoadID()
	m.loading = spec
	m.err = nil
	m.state = stateLoading
	m.input.Blur()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	ctx = logging.WithLoadID(ctx, m.loadID)
	m.cancel = cancel

	loader := m.loader
	id := m.loadID
	load := func() tea.Msg {
		pv, err := loader.Run(ctx, spec)
		return loadedMsg{id: id, preview: pv, err: err}
	}

	return m, tea.Batch(m.spinner.Tick, load)
}

// stopLoad releases the current load's context and forgets its ID so a
// late result is ignored.
func (m *Model) stopLoad() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loadID = ""
}

func newPreviewTable(pv *types.Preview) table.Model {
	rows := make([]table.Row, len(pv.Rows))
	for i, row := range pv.Rows {
		rows[i] = table.Row(row)
	}

	// Height counts the two header lines.
	return table.New(
		table.WithColumns(previewColumns(pv)),
		table.WithRows(rows),
		table.WithStyles(TableStyles()),
		table.WithHeight(len(rows)+2),
		table.WithFocused(false),
	)
}

// previewColumns sizes each column to its widest cell, capped at
// maxColumnWidth.
func previewColumns(pv *types.Preview) []table.Column {
	columns := make([]table.Column, len(pv.Columns))
	for i, name := range pv.Columns {
		width := lipgloss.Width(name)
		for _, row := range pv.Rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: name, Width: min(width, maxColumnWidth)}
	}
	return columns
}

func (m Model) View() string {
	switch m.state {
	case stateInput:
		return m.viewInput()
	case stateBrowse:
		return m.viewBrowse()
	case stateLoading:
		return m.viewLoading()
	case statePreview:
		return m.viewPreview()
	}
	return ""
}

func (m Model) viewInput() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📋 Roster - Excel File Reader"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Enter a path or http(s) link to an .xlsx or .csv file"))
	s.WriteString("\n\n")
	s.WriteString(InputStyle.Render(m.input.View()))
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(ErrorStyle.Render("✗ " + types.Title(m.err)))
		s.WriteString("\n")
		s.WriteString(m.err.Error())
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("enter: submit • ctrl+o: browse • esc: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewBrowse() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📋 Browse"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an .xlsx or .csv file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select • esc: back"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	what := "file"
	if source.IsURL(m.loading) {
		what = "link"
	}

	s.WriteString(TitleStyle.Render("📋 Checking..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s %s", m.spinner.View(), what, truncatePath(m.loading, m.maxPathLen())))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("esc: cancel"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ File is valid"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(filepath.Base(m.preview.Source)))
	s.WriteString("\n\n")
	s.WriteString(m.table.View())
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Showing %d of %d row(s)\n", len(m.preview.Rows), m.preview.TotalRows))
	s.WriteString(HelpStyle.Render("n: load another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) maxPathLen() int {
	// Leave room for padding and borders.
	n := m.width - 20
	if n < 30 {
		n = 30
	}
	return n
}

// truncatePath shortens p from the left to at most n runes.
func truncatePath(p string, n int) string {
	r := []rune(p)
	if len(r) <= n {
		return p
	}
	return "..." + string(r[len(r)-n+3:])
}
