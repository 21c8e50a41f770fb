//go:build !windows

package spawn

import "os"

func candidates(path string) []string {
	return []string{path}
}

func isExecutable(info os.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
