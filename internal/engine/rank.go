package engine

import (
	"strconv"
	"strings"
)

// rankPadding is the width minor and patch components are zero-padded to.
const rankPadding = 3

// Rank converts a "[v]MAJOR.MINOR.PATCH" label into a sortable integer by
// concatenating the major component with the zero-padded remaining ones:
// "v12.13.1" ranks as 12013001.
//
// Only the leading digits of each of the first three components count, so
// "v1.2.3-rc.1" ranks like "v1.2.3". Components of 1000 or more are not
// ranked correctly. Labels that do not start with a digit rank as 0.
func Rank(version string) int64 {
	parts := strings.SplitN(strings.TrimPrefix(version, "v"), ".", 3)

	var b strings.Builder
	for i, part := range parts {
		digits := leadingDigits(part)
		if digits == "" {
			break
		}
		if i > 0 && len(digits) < rankPadding {
			b.WriteString(strings.Repeat("0", rankPadding-len(digits)))
		}
		b.WriteString(digits)
		if len(digits) < len(part) {
			break
		}
	}
	if b.Len() == 0 {
		return 0
	}

	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
