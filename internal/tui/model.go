package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ascend/internal/engine"
	"ascend/internal/ui"
)

// Tracker is the part of the tracker service the board drives.
type Tracker interface {
	Subject(ctx context.Context) (*engine.Subject, error)
	DeleteActivity(ctx context.Context, id string) (*engine.ReversalResult, error)
	RunDegradation(ctx context.Context) (*engine.DegradationReport, error)
}

type boardModel struct {
	ctx context.Context
	svc Tracker

	width  int
	height int

	subject *engine.Subject
	// history newest first
	history []engine.ActivityRecord

	selected int
	// pendingDelete holds the id awaiting confirmation.
	pendingDelete string

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	subject *engine.Subject
	err     error
}

type deletedMsg struct {
	res *engine.ReversalResult
	err error
}

type decayedMsg struct {
	report *engine.DegradationReport
	err    error
}

func newBoardModel(ctx context.Context, svc Tracker) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.svc.Subject(m.ctx)
		return loadedMsg{subject: s, err: err}
	}
}

func (m boardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.DeleteActivity(m.ctx, id)
		return deletedMsg{res: res, err: err}
	}
}

func (m boardModel) decayCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.svc.RunDegradation(m.ctx)
		return decayedMsg{report: report, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.subject = msg.subject
		m.history = newestFirst(msg.subject.History)
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.lastLog = "Undo failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Undone %s: -%s (level %d → %d)", msg.res.Record.Kind, ui.FormatExp(msg.res.Receipt.ExpDelta), msg.res.LevelBefore, msg.res.LevelAfter)
		if msg.res.Migrated {
			m.lastLog += " [recomputed]"
		}
		return m, m.loadCmd()
	case decayedMsg:
		if msg.err != nil {
			m.lastLog = "Decay failed: " + msg.err.Error()
			return m, nil
		}
		if msg.report.Changed() {
			m.lastLog = "Decay applied."
		} else {
			m.lastLog = "No decay due."
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		key := msg.String()
		if m.pendingDelete != "" {
			id := m.pendingDelete
			m.pendingDelete = ""
			if key == "y" {
				m.lastLog = "Undoing…"
				return m, m.deleteCmd(id)
			}
			m.lastLog = "Cancelled."
			return m, nil
		}
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "x":
			m.lastLog = "Running decay…"
			return m, m.decayCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.history)-1 {
				m.selected++
			}
			return m, nil
		case "d", "delete":
			if m.selected < 0 || m.selected >= len(m.history) {
				m.lastLog = "Nothing selected."
				return m, nil
			}
			rec := m.history[m.selected]
			m.pendingDelete = rec.ID
			m.lastLog = fmt.Sprintf("Undo %s (%d min)? y/n", rec.Kind, rec.DurationMinutes)
			return m, nil
		}
	}
	return m, nil
}

func (m *boardModel) clampSelection() {
	if m.selected >= len(m.history) {
		m.selected = len(m.history) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func newestFirst(history []engine.ActivityRecord) []engine.ActivityRecord {
	out := make([]engine.ActivityRecord, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 34
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.subject == nil {
		return "Ascend | loading…"
	}
	_, rollover := engine.LevelFor(m.subject.TotalExp)
	need := engine.ThresholdFor(m.subject.Level)
	return fmt.Sprintf("Ascend | Level %d | EXP %s %s", m.subject.Level, ui.FormatExp(m.subject.TotalExp), ui.Bar(rollover, need, 30))
}

func (m boardModel) renderSidebar() string {
	if m.subject == nil {
		return "Stats\n\nLoading…"
	}
	stats, _ := engine.Sanitize(m.subject.Stats)
	ceiling := engine.RecommendedCeiling(stats)

	lines := []string{fmt.Sprintf("Stats (0-%g)", ceiling)}
	for _, s := range engine.AllStats {
		lines = append(lines, fmt.Sprintf("%s %s %s", s.Abbrev(), ui.Bar(stats.Get(s), ceiling, 14), ui.FormatStat(stats.Get(s))))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- d: undo selected")
	lines = append(lines, "- x: run decay")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{"History"}
	if len(m.history) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}

	rows := len(m.history)
	if m.height > 6 && rows > m.height-6 {
		rows = m.height - 6
	}
	first := 0
	if m.selected >= rows {
		first = m.selected - rows + 1
	}
	for i := first; i < len(m.history) && i < first+rows; i++ {
		rec := m.history[i]
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		gain := "(no receipt)"
		if rec.Receipt != nil {
			gain = receiptSummary(*rec.Receipt)
		}
		out = append(out, fmt.Sprintf("%s%s %-16s %4dm %s", cursor, rec.Timestamp.Local().Format("01-02 15:04"), rec.Kind, rec.DurationMinutes, gain))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func receiptSummary(r engine.Receipt) string {
	parts := make([]string, 0, len(r.StatDeltas)+1)
	for _, s := range r.StatDeltas.Stats() {
		parts = append(parts, fmt.Sprintf("+%.3g %s", r.StatDeltas[s], s.Abbrev()))
	}
	parts = append(parts, fmt.Sprintf("+%g EXP", r.ExpDelta))
	return strings.Join(parts, " ")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
