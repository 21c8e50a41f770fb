// Package reflog merges the HEAD reflogs of several repositories into one
// timeline, optionally limited to a period of days.
//
// Dates given on the command line use a configurable Go layout (M/d/yy by
// default). A single date covers that whole day; a from date starts at the
// beginning of its day and a to date ends at the end of its day.
package reflog
