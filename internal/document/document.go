// Package document holds the text of an editor as a sequence of lines, together
// with a prefix index of line start offsets and a cached longest-line length.
//
// Document trusts its caller: line and column arguments are expected to be in
// range. Clamping is the job of the selection layer.
package document

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Document is the line store of a single editor instance.
type Document struct {
	// Separator joins lines in Text. The start index table always counts a
	// separator of length 1 regardless of this value.
	Separator string

	lines             []string
	lineStartIndexes  []int
	longestLineLength int
}

// New creates a document from an initial text blob. Empty text yields a
// single empty line.
func New(text string) *Document {
	d := &Document{Separator: "\n"}
	d.SetText(text)
	return d
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Line returns the text of line i.
func (d *Document) Line(i int) string { return d.lines[i] }

// Lines returns the backing line slice. Callers must not modify it.
func (d *Document) Lines() []string { return d.lines }

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// LineLength returns the length of line i in runes.
func (d *Document) LineLength(i int) int { return utf8.RuneCountInString(d.lines[i]) }

// LongestLineLength returns the cached maximum line length in runes. The
// value only grows between full replacements.
func (d *Document) LongestLineLength() int { return d.longestLineLength }

// LineStartIndexes returns a copy of the line start index table.
func (d *Document) LineStartIndexes() []int {
	out := make([]int, len(d.lineStartIndexes))
	copy(out, d.lineStartIndexes)
	return out
}

// Text returns all lines joined by Separator.
func (d *Document) Text() string {
	return strings.Join(d.lines, d.Separator)
}

// PositionFromIndex converts an absolute rune offset into a line and column.
// Offsets past the end resolve onto the last line.
func (d *Document) PositionFromIndex(index int) (line, col int) {
	// First line whose start is beyond index, minus one.
	line = sort.Search(len(d.lineStartIndexes), func(i int) bool {
		return d.lineStartIndexes[i] > index
	}) - 1
	if line < 0 {
		return 0, 0
	}
	return line, index - d.lineStartIndexes[line]
}

// IndexFromPosition converts a line and column into an absolute rune offset.
func (d *Document) IndexFromPosition(line, col int) int {
	return d.lineStartIndexes[line] + col
}

// IndentAt returns the leading whitespace of line up to col, and the last
// non-space character before col (0 when there is none).
func (d *Document) IndentAt(line, col int) (indent string, last rune) {
	runes := []rune(d.lines[line])
	if col > len(runes) {
		col = len(runes)
	}
	n := 0
	for n < col && (runes[n] == ' ' || runes[n] == '\t') {
		n++
	}
	for i := col - 1; i >= 0; i-- {
		if runes[i] != ' ' && runes[i] != '\t' {
			last = runes[i]
			break
		}
	}
	return string(runes[:n]), last
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetText replaces the whole document, splitting on \r\n, \r and \n.
func (d *Document) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	d.lines = strings.Split(text, "\n")

	d.longestLineLength = 0
	for _, l := range d.lines {
		if n := utf8.RuneCountInString(l); n > d.longestLineLength {
			d.longestLineLength = n
		}
	}
	d.reindex()
}

// UpdateLine replaces the text of line i.
func (d *Document) UpdateLine(i int, text string) {
	oldLen := utf8.RuneCountInString(d.lines[i])
	d.lines[i] = text
	newLen := utf8.RuneCountInString(text)
	d.grow(newLen)
	if newLen != oldLen {
		d.reindex()
	}
}

// InsertLineBreak splits line at col and returns the position the cursor
// advances into.
//
// At column 0 an empty line is inserted before the current one and the cursor
// moves onto the original text, now one line down. At end of line an empty
// line is appended after it. Anywhere else the line is divided at col.
func (d *Document) InsertLineBreak(line, col int) (cursorLine, cursorCol int) {
	current := []rune(d.lines[line])

	switch {
	case col == 0:
		d.insertAt(line, "")
	case col >= len(current):
		d.insertAt(line+1, "")
	default:
		d.lines[line] = string(current[:col])
		d.insertAt(line+1, string(current[col:]))
	}
	d.reindex()
	return line + 1, 0
}

// DeleteLineBreak merges line into line-1 and returns the cursor position at
// the former join point. Deleting the break of line 0 is a no-op.
func (d *Document) DeleteLineBreak(line int) (cursorLine, cursorCol int) {
	if line <= 0 {
		return 0, 0
	}
	prev := d.lines[line-1]
	joinCol := utf8.RuneCountInString(prev)
	merged := prev + d.lines[line]

	d.lines = append(d.lines[:line], d.lines[line+1:]...)
	d.lines[line-1] = merged
	d.grow(utf8.RuneCountInString(merged))
	d.reindex()
	return line - 1, joinCol
}

func (d *Document) insertAt(i int, text string) {
	d.lines = append(d.lines, "")
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = text
}

func (d *Document) grow(n int) {
	if n > d.longestLineLength {
		d.longestLineLength = n
	}
}

// reindex rebuilds the start index table. O(n) in line count.
func (d *Document) reindex() {
	if cap(d.lineStartIndexes) >= len(d.lines) {
		d.lineStartIndexes = d.lineStartIndexes[:len(d.lines)]
	} else {
		d.lineStartIndexes = make([]int, len(d.lines))
	}
	start := 0
	for i, l := range d.lines {
		d.lineStartIndexes[i] = start
		start += utf8.RuneCountInString(l) + 1
	}
}
