package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/sqlquest/internal/fixture"
	"github.com/roach88/sqlquest/internal/resultset"
	"github.com/roach88/sqlquest/internal/session"
)

type view int

const (
	viewPractice view = iota
	viewStations
	viewTransactions
)

// Options configures the interactive UI.
type Options struct {
	NoColor bool

	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
}

// Model is the Bubble Tea model of a practice session.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	editor  textarea.Model
	result  table.Model
	data    table.Model
	tables  map[string]resultset.QueryResult
	view    view
	running bool
	err     error
	width   int
	noColor bool
}

// NewModel builds a model over sess. The editor starts with the session's
// current query text.
func NewModel(ctx context.Context, sess *session.Session, opts Options) Model {
	editor := textarea.New()
	editor.Placeholder = "Write your SQL query here…"
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.SetHeight(6)
	editor.SetValue(sess.State().Query)
	editor.Focus()

	return Model{
		ctx:     ctx,
		sess:    sess,
		editor:  editor,
		result:  newTable(opts.NoColor),
		data:    newTable(opts.NoColor),
		noColor: opts.NoColor,
	}
}

// Run starts the interactive UI and blocks until the user quits or ctx is
// done.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(NewModel(ctx, sess, opts), programOpts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// runMsg carries the outcome of a Run command.
type runMsg struct {
	attempt session.Attempt
	err     error
}

// tablesMsg carries the fixture tables for the data view.
type tablesMsg struct {
	tables map[string]resultset.QueryResult
	err    error
}

// Init loads the fixture tables and starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, loadTables(m.ctx, m.sess))
}

// Update handles keys, window resizes, and command results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.editor.SetWidth(max(typed.Width-2, 20))
		m.result.SetWidth(typed.Width)
		m.data.SetWidth(typed.Width)
		m.data.SetHeight(max(typed.Height-4, 3))
		return m, nil

	case runMsg:
		m.running = false
		if typed.err != nil {
			m.err = typed.err
			return m, nil
		}
		m.syncResult()
		return m, nil

	case tablesMsg:
		if typed.err != nil {
			m.err = typed.err
			return m, nil
		}
		m.tables = typed.tables
		m.showTable()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m, tea.Quit
	case keyEscape:
		if m.view != viewPractice {
			m.view = viewPractice
			return m, nil
		}
		return m, tea.Quit
	case keyData:
		m.view = (m.view + 1) % 3
		m.showTable()
		return m, nil
	}

	if m.view != viewPractice || m.running {
		return m, nil
	}

	switch msg.String() {
	case keyRun:
		m.running = true
		m.err = nil
		m.sess.SetQuery(m.editor.Value())
		return m, runQuery(m.ctx, m.sess)
	case keyNextTier:
		return m.selectTier(), nil
	case keyNextQuestion:
		return m.stepQuestion(1), nil
	case keyPrevQuestion:
		return m.stepQuestion(-1), nil
	case keyHint:
		m.sess.ToggleHint()
		return m, nil
	case keyAnswer:
		m.sess.ToggleAnswer()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.sess.SetQuery(m.editor.Value())
	return m, cmd
}

// selectTier advances to the next tier, wrapping around.
func (m Model) selectTier() Model {
	tiers := m.sess.Bank().Tiers()
	current := m.sess.State().Tier
	next := tiers[0]
	for i, t := range tiers {
		if t == current {
			next = tiers[(i+1)%len(tiers)]
			break
		}
	}
	if err := m.sess.SelectTier(next); err != nil {
		m.err = err
		return m
	}
	m.afterSelection()
	return m
}

// stepQuestion moves by delta within the tier, wrapping around.
func (m Model) stepQuestion(delta int) Model {
	st := m.sess.State()
	size := m.sess.Bank().TierSize(st.Tier)
	if size == 0 {
		return m
	}
	next := ((st.Question+delta)%size + size) % size
	if err := m.sess.SelectQuestion(next); err != nil {
		m.err = err
		return m
	}
	m.afterSelection()
	return m
}

func (m *Model) afterSelection() {
	m.editor.Reset()
	m.err = nil
	m.syncResult()
}

// syncResult mirrors the session's result into the result table.
func (m *Model) syncResult() {
	if r := m.sess.State().Result; r != nil {
		setResult(&m.result, *r)
		return
	}
	setResult(&m.result, resultset.QueryResult{})
}

func (m *Model) showTable() {
	if name := m.tableName(); name != "" {
		setResult(&m.data, m.tables[name])
	}
}

func (m Model) tableName() string {
	switch m.view {
	case viewStations:
		return fixture.TableStations
	case viewTransactions:
		return fixture.TableTransactions
	}
	return ""
}

// View renders the current screen.
func (m Model) View() string {
	if m.view != viewPractice {
		return m.dataView()
	}

	st := m.sess.State()
	q := m.sess.Current()
	bank := m.sess.Bank()

	sections := []string{
		renderTiers(bank, st.Tier, m.noColor),
		renderQuestionLine(bank, st, q, m.noColor),
		renderPrompt(q, m.width),
		m.editor.View(),
	}
	if reveal := renderReveal(st, q, m.noColor); reveal != "" {
		sections = append(sections, reveal)
	}
	if status := renderStatus(st, m.running, m.noColor); status != "" {
		sections = append(sections, status)
	}
	if st.Result != nil {
		sections = append(sections, m.resultView(*st.Result))
	}
	if m.err != nil {
		sections = append(sections, stylize("Internal error: "+m.err.Error(), m.noColor, colorError))
	}
	sections = append(sections, renderHelp(practiceHelp, m.noColor))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) resultView(r resultset.QueryResult) string {
	if r.Len() == 0 {
		return stylize("(no rows)", m.noColor, colorMuted)
	}
	return m.result.View() + "\n" + stylize(fmt.Sprintf("%d rows", r.Len()), m.noColor, colorMuted)
}

func (m Model) dataView() string {
	name := m.tableName()
	title := stylize(fmt.Sprintf("%s (%d rows)", name, m.tables[name].Len()), m.noColor, colorTitle)
	return lipgloss.JoinVertical(lipgloss.Left, title, m.data.View(), renderHelp(dataHelp, m.noColor))
}

func runQuery(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		attempt, err := sess.Run(ctx)
		return runMsg{attempt: attempt, err: err}
	}
}

func loadTables(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		tables := make(map[string]resultset.QueryResult, len(fixture.Tables()))
		for _, name := range fixture.Tables() {
			r, err := sess.Table(ctx, name)
			if err != nil {
				return tablesMsg{err: fmt.Errorf("load %s: %w", name, err)}
			}
			tables[name] = r
		}
		return tablesMsg{tables: tables}
	}
}
