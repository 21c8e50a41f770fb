package nodetools

import (
	"errors"
	"fmt"
)

// ErrWindowsOnly is returned by operations limited to the nvm-windows layout.
var ErrWindowsOnly = errors.New("this tool only works with nvm-windows (NVM_HOME is not set)")

// Action is the outcome of a fix, clean or removal step for one version.
type Action struct {
	Version     string
	Description string
	Err         error
}

// String formats the action the way the report lists versions.
func (a Action) String() string {
	if a.Err != nil {
		return fmt.Sprintf(" - %-9s - %s: %v", a.Version, a.Description, a.Err)
	}
	return fmt.Sprintf(" - %-9s - %s", a.Version, a.Description)
}

// Failed counts actions that carry an error.
func Failed(actions []Action) int {
	n := 0
	for _, a := range actions {
		if a.Err != nil {
			n++
		}
	}
	return n
}
