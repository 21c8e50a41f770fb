package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raphi011/devtools/internal/git"
	"github.com/raphi011/devtools/internal/ui/styles"
)

// HashLength is the number of hash characters shown.
const HashLength = 7

// SortByName sorts statuses by name, case-insensitively.
func SortByName(statuses []git.Status) {
	sort.SliceStable(statuses, func(i, j int) bool {
		return strings.ToLower(statuses[i].Name) < strings.ToLower(statuses[j].Name)
	})
}

func shortHash(hash string) string {
	if len(hash) > HashLength {
		return hash[:HashLength]
	}
	return hash
}

func remote(st git.Status) string {
	if st.Remote == nil || st.Remote.Ahead+st.Remote.Behind == 0 {
		return ""
	}
	return fmt.Sprintf("ahead %d : behind %d", st.Remote.Ahead, st.Remote.Behind)
}

// BranchLine formats one status as a report line.
func BranchLine(st git.Status) string {
	line := st.Name + " | " + styles.Dirty(st.Branch, st.Dirty) + " | " + shortHash(st.Head)
	if r := remote(st); r != "" {
		line += " | " + r
	}
	return line
}

// BranchLines sorts statuses and formats each as a report line.
func BranchLines(statuses []git.Status) []string {
	SortByName(statuses)
	lines := make([]string, len(statuses))
	for i, st := range statuses {
		lines[i] = BranchLine(st)
	}
	return lines
}
