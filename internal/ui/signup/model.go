// Package signup implements the interactive registration screen: the current registry
// as a table, a single name input and the greeting for the last submission.
package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/pubsub"
	"github.com/zjrosen/signup/internal/registry/application"
	"github.com/zjrosen/signup/internal/registry/domain"
)

const (
	zoneSubmit = "signup-submit"

	defaultWidth  = 80
	maxTableRows  = 15
	genericErrMsg = "Something went wrong talking to the registry. See the debug log for details."
)

// Registry is the registration workflow driven by the screen.
type Registry interface {
	Load(ctx context.Context) ([]domain.Registrant, error)
	Refresh(ctx context.Context) ([]domain.Registrant, error)
	Submit(ctx context.Context, name string) (application.Result, error)
}

type rowsLoadedMsg struct {
	rows []domain.Registrant
	err  error
}

type submittedMsg struct {
	result application.Result
	err    error
}

type tableChangedMsg struct{}

// Model is the signup screen.
type Model struct {
	ctx      context.Context
	registry Registry

	input       textinput.Model
	table       table.Model
	tableHeader int
	header      string

	rows       []domain.Registrant
	loaded     bool
	submitting bool
	message    string
	outcome    domain.Outcome
	err        error
	added      int
	lastLog    string

	changes <-chan struct{}
	events  *pubsub.ContinuousListener[domain.Registrant]
	logs    *log.LogListener

	width  int
	height int
}

// Option customizes a Model.
type Option func(*Model)

// WithChanges reloads the registry whenever ch fires, e.g. from a file watcher.
func WithChanges(ch <-chan struct{}) Option {
	return func(m *Model) { m.changes = ch }
}

// WithEvents counts registrants created during this session.
func WithEvents(sub pubsub.Subscriber[domain.Registrant]) Option {
	return func(m *Model) {
		m.events = pubsub.NewContinuousListener[domain.Registrant](m.ctx, sub)
	}
}

// WithLogs shows the most recent debug log line in the footer.
func WithLogs(l *log.LogListener) Option {
	return func(m *Model) { m.logs = l }
}

// New creates the screen. ctx bounds every registry call and subscription.
func New(ctx context.Context, registry Registry, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your name..."
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()

	tbl := table.New(
		table.WithColumns(buildColumns(nil)),
		table.WithHeight(1),
		// focused so the row keys scroll; Selected is unstyled so no cursor shows
		table.WithFocused(true),
		table.WithStyles(styles),
	)

	m := Model{
		ctx:         ctx,
		registry:    registry,
		input:       ti,
		table:       tbl,
		tableHeader: lipgloss.Height(styles.Header.Render("name")),
		width:       defaultWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.header = renderHeader(m.width)
	return m
}

// Init loads the registry and starts any listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadCmd()}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	if m.events != nil {
		cmds = append(cmds, m.events.Listen())
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header = renderHeader(max(msg.Width-2, 20))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "ctrl+r":
			return m, m.refreshCmd()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.table.MoveUp(1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.table.MoveDown(1)
			return m, nil
		}
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if z := zone.Get(zoneSubmit); z != nil && z.InBounds(msg) {
				return m.submit()
			}
		}
		return m, nil

	case rowsLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "loading registry failed", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setRows(msg.rows)
		return m, nil

	case submittedMsg:
		return m.handleSubmitted(msg), nil

	case tableChangedMsg:
		log.Debug(log.CatUI, "registry changed on disk, reloading")
		return m, tea.Batch(m.refreshCmd(), m.waitForChange())

	case pubsub.Event[domain.Registrant]:
		if msg.Type == pubsub.CreatedEvent {
			m.added++
		}
		return m, m.events.Listen()

	case pubsub.Event[string]:
		m.lastLog = strings.TrimSpace(msg.Payload)
		return m, m.logs.Listen()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	name := m.input.Value()
	if strings.TrimSpace(name) == "" || m.submitting {
		return m, nil
	}
	m.submitting = true
	registry, ctx := m.registry, m.ctx
	return m, func() tea.Msg {
		result, err := registry.Submit(ctx, name)
		return submittedMsg{result: result, err: err}
	}
}

func (m Model) handleSubmitted(msg submittedMsg) Model {
	m.submitting = false

	if errors.Is(msg.err, domain.ErrEmptyName) {
		return m
	}

	// an insert that could not be re-read still greets the user
	if msg.result.Outcome != 0 {
		m.outcome = msg.result.Outcome
		m.message = msg.result.Message
		m.input.SetValue("")
	}
	if msg.result.Rows != nil {
		m.setRows(msg.result.Rows)
	}

	if msg.err != nil {
		log.ErrorErr(log.CatUI, "submit failed", msg.err, "name", msg.result.Name)
		m.err = msg.err
		return m
	}
	m.err = nil
	return m
}

func (m *Model) setRows(rows []domain.Registrant) {
	m.rows = rows
	m.loaded = true
	cols := buildColumns(rows)
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(buildRows(rows, cols))
	m.table.SetHeight(min(max(len(rows), 1), maxTableRows) + m.tableHeader)
}

func (m Model) loadCmd() tea.Cmd {
	registry, ctx := m.registry, m.ctx
	return func() tea.Msg {
		rows, err := registry.Load(ctx)
		return rowsLoadedMsg{rows: rows, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	registry, ctx := m.registry, m.ctx
	return func() tea.Msg {
		rows, err := registry.Refresh(ctx)
		return rowsLoadedMsg{rows: rows, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return tableChangedMsg{}
		}
	}
}

// Rows returns the registrants currently displayed.
func (m Model) Rows() []domain.Registrant {
	return m.rows
}

// Message returns the greeting for the last submission.
func (m Model) Message() string {
	return m.message
}

// Err returns the last registry error, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header)
	b.WriteString("\n\n")

	switch {
	case !m.loaded && m.err == nil:
		b.WriteString(subtleStyle.Render("Loading registry..."))
	case len(m.rows) == 0 && m.loaded:
		b.WriteString(subtleStyle.Render("No one has signed up yet."))
	case m.loaded:
		b.WriteString(tableBoxStyle.Render(m.table.View()))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Enter your name:"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(zone.Mark(zoneSubmit, buttonStyle.Render("Sign up")))
	b.WriteString("\n")

	wrap := max(m.width-2, 20)
	if m.message != "" {
		style := welcomeStyle
		if m.outcome == domain.OutcomeInserted {
			style = insertStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(wordwrap.String(m.message, wrap)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordwrap.String(genericErrMsg, wrap)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.statusLine()))
	if m.lastLog != "" {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(truncateLine(m.lastLog, wrap)))
	}

	return zone.Scan(b.String())
}

func (m Model) statusLine() string {
	status := fmt.Sprintf("%d registered", len(m.rows))
	if m.added > 0 {
		status += fmt.Sprintf(" · %d new this session", m.added)
	}
	if m.submitting {
		status += " · saving..."
	}
	return status + " · enter submit · ctrl+r refresh · esc quit"
}
