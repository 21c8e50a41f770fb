package progress

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

// messageUpdate is sent to update the spinner message
type messageUpdate string

// Spinner shows an indeterminate activity indicator with a message.
type Spinner struct {
	runner[string]
	lastMsg string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	updates <-chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m spinnerModel) next() tea.Cmd {
	return waitFor(m.updates, func(s string) tea.Msg { return messageUpdate(s) })
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.next()
	case tea.KeyPressMsg:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	s := &Spinner{lastMsg: message}
	s.setup(os.Stderr)
	return s
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.start(func(updates <-chan string) tea.Model {
		sp := spinner.New()
		sp.Spinner = spinner.Dot
		return spinnerModel{spinner: sp, message: s.lastMsg, updates: updates}
	})
}

// UpdateMessage changes the spinner message
func (s *Spinner) UpdateMessage(message string) {
	if !s.send(message) {
		s.lastMsg = message
	}
}

// Stop stops the spinner and clears the line
func (s *Spinner) Stop() {
	s.stop()
}
