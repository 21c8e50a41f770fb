package prompt

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/devtools/internal/ui/styles"
)

// Answer is the outcome of a confirmation prompt.
type Answer int

const (
	// Declined is also the answer to a bare enter.
	Declined Answer = iota
	Accepted
	Aborted
)

type confirmModel struct {
	question string
	items    []string
	answer   Answer
	done     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.answer = Accepted
	case "n", "enter":
		m.answer = Declined
	case "ctrl+c", "q", "esc":
		m.answer = Aborted
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	var b strings.Builder
	for _, item := range m.items {
		b.WriteString(styles.MutedStyle.Render("  "+item) + "\n")
	}
	fmt.Fprintf(&b, "%s %s ", styles.Bold.Render(m.question), styles.MutedStyle.Render("[y/N]"))
	return tea.NewView(b.String())
}

// Confirm lists items on stderr, asks question and waits for y or n.
func Confirm(question string, items []string) (Answer, error) {
	p := tea.NewProgram(confirmModel{question: question, items: items}, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return Aborted, err
	}
	return final.(confirmModel).answer, nil
}
