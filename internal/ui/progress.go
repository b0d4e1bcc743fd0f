package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"icuc/internal/buildpipeline"
)

// itemState is where one catalog is in the pipeline.
type itemState uint8

const (
	stateQueued itemState = iota
	stateWorking
	stateDone
	stateFailed
)

func (s itemState) finished() bool { return s == stateDone || s == stateFailed }

type catalogItem struct {
	path    string
	state   itemState
	stage   buildpipeline.Stage
	elapsed time.Duration
	err     string
}

func (it catalogItem) label() string {
	switch it.state {
	case stateWorking:
		return stageLabel(it.stage)
	case stateDone:
		return "done"
	case stateFailed:
		return "error"
	default:
		return "queued"
	}
}

type progressModel struct {
	title    string
	events   <-chan buildpipeline.Event
	spinner  spinner.Model
	bar      progress.Model
	items    []catalogItem
	index    map[string]int
	overall  itemState
	width    int
	height   int
	finished bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const (
	defaultWidth = 80
	// rows kept for the header, the bar and the "more" line
	chromeRows = 6
	minRows    = 5
)

// NewProgressModel returns a Bubble Tea model that renders per-catalog
// progress until events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultWidth - 4

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]catalogItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   defaultWidth,
	}
	for i, file := range files {
		m.items[i] = catalogItem{path: file}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		m.height = msg.Height
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	state, ok := stateOf(ev.Status)
	if !ok {
		return nil
	}
	if ev.File == "" {
		m.overall = state
		return nil
	}
	idx, known := m.index[ev.File]
	if !known {
		return nil
	}
	it := &m.items[idx]
	it.state = state
	it.stage = ev.Stage
	if state.finished() {
		it.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		it.err = firstLine(ev.Err.Error())
	}
	return m.bar.SetPercent(m.percent())
}

func stateOf(status buildpipeline.Status) (itemState, bool) {
	switch status {
	case buildpipeline.StatusQueued:
		return stateQueued, true
	case buildpipeline.StatusWorking:
		return stateWorking, true
	case buildpipeline.StatusDone:
		return stateDone, true
	case buildpipeline.StatusError:
		return stateFailed, true
	}
	return stateQueued, false
}

// percent: finished catalogs count fully, the rest by their current stage.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		switch {
		case it.state.finished():
			total++
		case it.state == stateWorking:
			total += stageWeight(it.stage)
		}
	}
	return total / float64(len(m.items))
}

func stageWeight(stage buildpipeline.Stage) float64 {
	switch stage {
	case buildpipeline.StageParse:
		return 0.2
	case buildpipeline.StageCompile:
		return 0.5
	case buildpipeline.StageEmit:
		return 0.9
	}
	return 0
}

func stageLabel(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageCompile:
		return "compiling"
	case buildpipeline.StageEmit:
		return "emitting"
	}
	return "working"
}

func (m *progressModel) counts() (done, failed int) {
	for _, it := range m.items {
		switch it.state {
		case stateDone:
			done++
		case stateFailed:
			failed++
		}
	}
	return done, failed
}

func (m *progressModel) header() string {
	done, failed := m.counts()
	text := fmt.Sprintf("%s: %d/%d catalogs", m.title, done+failed, len(m.items))
	if failed > 0 {
		text += fmt.Sprintf(", %d failed", failed)
	}
	switch {
	case m.finished || m.overall.finished():
		mark := okStyle.Render("done")
		if failed > 0 || m.overall == stateFailed {
			mark = failStyle.Render("failed")
		}
		return mark + " " + titleStyle.Render(text)
	default:
		return m.spinner.View() + " " + titleStyle.Render(text)
	}
}

// visible picks the rows to draw. Unfinished and failed catalogs win over
// finished ones once the terminal is too short for all of them.
func (m *progressModel) visible() (rows []catalogItem, hidden int) {
	limit := len(m.items)
	if m.height > 0 {
		limit = max(m.height-chromeRows, minRows)
	}
	if len(m.items) <= limit {
		return m.items, 0
	}
	rows = make([]catalogItem, 0, limit)
	for _, it := range m.items {
		if it.state != stateDone && len(rows) < limit {
			rows = append(rows, it)
		}
	}
	for _, it := range m.items {
		if it.state == stateDone && len(rows) < limit {
			rows = append(rows, it)
		}
	}
	return rows, len(m.items) - len(rows)
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-16, 20)

	rows, hidden := m.visible()
	for _, it := range rows {
		label := fmt.Sprintf("%*s", statusWidth, it.label())
		switch it.state {
		case stateDone:
			label = okStyle.Render(label)
		case stateFailed:
			label = failStyle.Render(label)
		case stateWorking:
			label = workingStyle.Render(label)
		default:
			label = dimStyle.Render(label)
		}
		fmt.Fprintf(&b, "  %s %s", label, truncate(it.path, nameWidth))
		if it.state.finished() && it.elapsed > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" %.1fms", float64(it.elapsed.Microseconds())/1000)))
		}
		b.WriteString("\n")
		if it.err != "" {
			fmt.Fprintf(&b, "  %*s %s\n", statusWidth, "", failStyle.Render(truncate(it.err, nameWidth)))
		}
	}
	if hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
