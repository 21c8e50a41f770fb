// Package progress provides progress indication components.
//
// Spinners and bars render to stderr so stdout stays clean for piping.
// Callers should check Enabled first and skip live output otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
)

// Enabled reports whether stderr is an interactive terminal.
func Enabled() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runner drives a Bubbletea program fed through a buffered channel.
type runner[T any] struct {
	out       io.Writer
	program   *tea.Program
	updates   chan T
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
}

func (r *runner[T]) setup(out io.Writer) {
	r.out = out
	r.updates = make(chan T, 10)
	r.done = make(chan struct{})
}

// start launches the program built by model. No-op when already running.
func (r *runner[T]) start(model func(updates <-chan T) tea.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return
	}

	r.program = tea.NewProgram(model(r.updates), tea.WithoutSignalHandler(), tea.WithOutput(r.out))
	r.isRunning = true

	go func() {
		_, _ = r.program.Run()
		close(r.done)
	}()
}

// send delivers v without blocking. Returns false when the program is not
// running so the caller can keep the value for a later start.
func (r *runner[T]) send(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return false
	}

	// Drops the update when the channel is full; the next one catches up
	select {
	case r.updates <- v:
	default:
	}
	return true
}

// stop quits the program and clears the line.
func (r *runner[T]) stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = false
	// Closed under the mutex so send never writes to a closed channel
	close(r.updates)
	r.mu.Unlock()

	if r.program != nil {
		r.program.Quit()
	}

	select {
	case <-r.done:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(r.out, "\r\033[K")
}

// waitFor turns the next channel value into a message, quitting once the
// channel is closed.
func waitFor[T any](updates <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return wrap(v)
	}
}
