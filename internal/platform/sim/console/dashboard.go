// Package console renders the live machine state as a Bubble Tea program,
// used both attached to a local terminal (cmd/pinhall's sim subcommand) and
// mirrored to remote operators over SSH (internal/remote). It never talks
// to the game controller directly — it is itself a media.Sink, fed events
// from the main loop, and it pokes the simulator's switches the same way a
// test double would, so the dashboard goroutine never touches controller
// state that the spec's single-threaded main-loop invariant protects
// (spec §5).
package console

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/media"
	"github.com/vovakirdan/pinhall/internal/platform/sim"
)

const maxLogLines = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	logStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// Binding maps a single keystroke to a named switch activation.
type Binding struct {
	Key    string // the tea.KeyMsg.String() this binding responds to
	Name   string // human label shown in the help bar
	Switch string // the machine switch name this keystroke closes/opens
}

// Dashboard is a media.Sink and a Bubble Tea model: Post appends to an
// internal ring buffer under a mutex, and the render loop polls it on a
// timer rather than sharing state with the controller goroutine directly.
type Dashboard struct {
	sim      *sim.Simulator
	switches *core.SwitchTable
	bindings []Binding

	mu   sync.Mutex
	log  []string
	tbl  table.Model

	width, height int
	quitting      bool
}

// New constructs a Dashboard driving machineSim via bindings. machineSim
// may be nil for a read-only mirror (e.g. the SSH remote console), in
// which case keystrokes are shown in the help bar but do nothing.
func New(machineSim *sim.Simulator, switches *core.SwitchTable, bindings []Binding) *Dashboard {
	columns := []table.Column{
		{Title: "Player", Width: 10},
		{Title: "Score", Width: 12},
		{Title: "Balls", Width: 6},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(6), table.WithFocused(false))
	return &Dashboard{sim: machineSim, switches: switches, bindings: bindings, tbl: t}
}

// Post implements media.Sink, recording every event into the scrolling log.
func (d *Dashboard) Post(event media.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	line := event.Type
	if event.Payload != nil {
		line = fmt.Sprintf("%s %v", event.Type, event.Payload)
	}
	d.log = append(d.log, line)
	if len(d.log) > maxLogLines {
		d.log = d.log[len(d.log)-maxLogLines:]
	}
}

// SetPlayers replaces the scoreboard rows under the dashboard's mutex. The
// dashboard never calls it itself (its tick handler only schedules the next
// tick), so the scoreboard shows whatever rows were last set.
func (d *Dashboard) SetPlayers(rows []table.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tbl.SetRows(rows)
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var _ tea.Model = (*Dashboard)(nil)

func (d *Dashboard) Init() tea.Cmd {
	return tickCmd()
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = m.Width, m.Height
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(m)
	case tickMsg:
		return d, tickCmd()
	}
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "ctrl+c" || key == "esc" {
		d.quitting = true
		return d, tea.Quit
	}
	if d.sim == nil {
		return d, nil
	}
	for _, b := range d.bindings {
		if b.Key != key {
			continue
		}
		sw, err := d.switches.Get(b.Switch)
		if err != nil {
			continue
		}
		d.sim.SetSwitch(sw.Address, activeState(sw))
		go d.releaseAfter(sw)
	}
	return d, nil
}

// activeState and restState give the physical state a switch must be driven
// to for its IsActive() to read true/false, honoring normally-open vs.
// normally-closed wiring (spec §4.3).
func activeState(sw *core.Switch) core.PhysicalState {
	if sw.Type == core.NormallyOpen {
		return core.Closed
	}
	return core.Open
}

func restState(sw *core.Switch) core.PhysicalState {
	if sw.Type == core.NormallyOpen {
		return core.Open
	}
	return core.Closed
}

// releaseAfter returns a momentary switch to rest shortly after a keypress,
// imitating a finger lifting off a button rather than holding it forever.
func (d *Dashboard) releaseAfter(sw *core.Switch) {
	time.Sleep(80 * time.Millisecond)
	d.sim.SetSwitch(sw.Address, restState(sw))
}

// Snapshot returns a thread-safe copy of the current event log and the
// rendered scoreboard, for a Mirror running in a different goroutine.
func (d *Dashboard) Snapshot() ([]string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.log))
	copy(out, d.log)
	return out, d.tbl.View()
}

// Mirror is a read-only Bubble Tea model over a shared Dashboard: remote
// SSH viewers get their own Program and their own width/height/quitting
// state, but every Mirror renders the same underlying log and scoreboard.
type Mirror struct {
	dash          *Dashboard
	width, height int
	quitting      bool
}

// NewMirror constructs a Mirror over dash.
func NewMirror(dash *Dashboard) *Mirror { return &Mirror{dash: dash} }

var _ tea.Model = (*Mirror)(nil)

func (m *Mirror) Init() tea.Cmd { return tickCmd() }

func (m *Mirror) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = t.Width, t.Height
		return m, nil
	case tea.KeyMsg:
		if t.String() == "q" || t.String() == "ctrl+c" || t.String() == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		return m, tickCmd()
	}
	return m, nil
}

func (m *Mirror) View() string {
	if m.quitting {
		return ""
	}
	lines, tableView := m.dash.Snapshot()
	header := titleStyle.Render("pinhall — remote mirror (read-only)")
	scores := panelStyle.Render(tableView)
	events := panelStyle.Render(logStyle.Render(strings.Join(lines, "\n")))
	help := helpStyle.Render("q:quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, scores, events, help)
}

func (d *Dashboard) View() string {
	if d.quitting {
		return ""
	}

	d.mu.Lock()
	logCopy := make([]string, len(d.log))
	copy(logCopy, d.log)
	tableView := d.tbl.View()
	d.mu.Unlock()

	header := titleStyle.Render("pinhall — live machine")
	scores := panelStyle.Render(tableView)
	events := panelStyle.Render(logStyle.Render(strings.Join(logCopy, "\n")))

	var keys []string
	for _, b := range d.bindings {
		keys = append(keys, fmt.Sprintf("%s:%s", b.Key, b.Name))
	}
	help := helpStyle.Render(strings.Join(keys, "  ") + "  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, scores, events, help)
}
