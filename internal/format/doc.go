// Package format renders repository reports as text lines and table rows.
//
// The branches report prints one line per repository:
//
//	name | branch[*] | hash7[ | ahead A : behind B]
//
// A trailing * marks uncommitted changes. The remote part is only shown
// after a fetch and only when the branch differs from origin. Reports are
// sorted by repository name, ignoring case.
package format
