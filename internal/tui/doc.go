// Package tui is the interactive terminal front-end of a practice session,
// built on Bubble Tea.
//
// The screen shows the tier and question pickers, the prompt, a query
// editor, the hint and reference answer when revealed, the verdict or
// engine error of the last run, and the result table. A second view lists
// the fixture tables.
package tui
