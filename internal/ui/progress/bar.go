package progress

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/devtools/internal/ui/styles"
)

type barUpdate struct {
	current int
	message string
}

// Bar shows determinate progress, e.g. folders removed out of a known total.
type Bar struct {
	runner[barUpdate]
	total int
	last  barUpdate
}

type barModel struct {
	progress progress.Model
	total    int
	state    barUpdate
	updates  <-chan barUpdate
}

func (m barModel) Init() tea.Cmd {
	return m.next()
}

func (m barModel) next() tea.Cmd {
	return waitFor(m.updates, func(u barUpdate) tea.Msg { return u })
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case barUpdate:
		m.state = msg
		return m, m.next()
	case tea.KeyPressMsg:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

// percent is the completed fraction, clamped to [0, 1].
func (m barModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.state.current) / float64(m.total)
	return min(max(p, 0), 1)
}

func (m barModel) View() tea.View {
	return tea.NewView(fmt.Sprintf("%s %d/%d %s", m.progress.ViewAs(m.percent()), m.state.current, m.total, m.state.message))
}

// NewBar creates a progress bar writing to stderr.
func NewBar(total int, message string) *Bar {
	b := &Bar{total: total, last: barUpdate{message: message}}
	b.setup(os.Stderr)
	return b
}

// Start begins drawing the bar.
func (b *Bar) Start() {
	b.start(func(updates <-chan barUpdate) tea.Model {
		return barModel{
			progress: progress.New(
				progress.WithWidth(30),
				progress.WithoutPercentage(),
				progress.WithColors(styles.Primary, styles.Accent),
			),
			total:   b.total,
			state:   b.last,
			updates: updates,
		}
	})
}

// Set moves the bar to current and replaces the message.
func (b *Bar) Set(current int, message string) {
	u := barUpdate{current: current, message: message}
	if !b.send(u) {
		b.last = u
	}
}

// Stop stops drawing and clears the line.
func (b *Bar) Stop() {
	b.stop()
}

// Total returns the total count for the bar.
func (b *Bar) Total() int {
	return b.total
}
