//go:build windows

package spawn

import (
	"os"
	"strings"
)

func candidates(path string) []string {
	exts := strings.Split(strings.ToLower(os.Getenv("PATHEXT")), ";")
	if len(exts) == 1 && exts[0] == "" {
		exts = []string{".com", ".exe", ".bat", ".cmd"}
	}
	out := []string{path}
	for _, ext := range exts {
		if ext != "" {
			out = append(out, path+ext)
		}
	}
	return out
}

func isExecutable(os.FileInfo) bool {
	return true
}
