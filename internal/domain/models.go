package domain

import "fmt"

// Entry is one line of input shown in the picker
type Entry struct {
	ID     int    // position in load order, unique per session
	Source string // file path, or "-" for stdin
	Line   int    // 1-based line number within Source
	Text   string
}

// String renders the entry the way it is printed on exit
func (e Entry) String() string {
	return e.Text
}

// Location renders source:line
func (e Entry) Location() string {
	return fmt.Sprintf("%s:%d", e.Source, e.Line)
}
