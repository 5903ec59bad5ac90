package document

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew_Empty(t *testing.T) {
	d := New("")
	require.Equal(t, 1, d.LineCount())
	require.Equal(t, "", d.Line(0))
	require.Equal(t, "", d.Text())
	require.Equal(t, []int{0}, d.LineStartIndexes())
}

func TestSetText(t *testing.T) {
	d := New("")
	d.SetText("hello\nworld")

	require.Equal(t, 2, d.LineCount())
	require.Equal(t, "hello", d.Line(0))
	require.Equal(t, "world", d.Line(1))
	require.Equal(t, []int{0, 6}, d.LineStartIndexes())
	require.Equal(t, 5, d.LongestLineLength())
	require.Equal(t, "hello\nworld", d.Text())
}

func TestSetText_MixedLineBreaks(t *testing.T) {
	d := New("a\r\nbb\rccc\n")
	require.Equal(t, []string{"a", "bb", "ccc", ""}, d.Lines())
	require.Equal(t, []int{0, 2, 5, 9}, d.LineStartIndexes())
}

func TestText_CustomSeparator(t *testing.T) {
	d := New("a\nb")
	d.Separator = "\r\n"
	require.Equal(t, "a\r\nb", d.Text())
	// Index table still counts one separator character.
	require.Equal(t, []int{0, 2}, d.LineStartIndexes())
}

func TestLineLength_Runes(t *testing.T) {
	d := New("héllo\n日本")
	require.Equal(t, 5, d.LineLength(0))
	require.Equal(t, 2, d.LineLength(1))
	require.Equal(t, []int{0, 6}, d.LineStartIndexes())
}

func TestUpdateLine(t *testing.T) {
	d := New("one\ntwo\nthree")
	d.UpdateLine(1, "twenty-two")

	require.Equal(t, "twenty-two", d.Line(1))
	require.Equal(t, []int{0, 4, 15}, d.LineStartIndexes())
	require.Equal(t, 10, d.LongestLineLength())
}

func TestUpdateLine_LongestNeverShrinks(t *testing.T) {
	d := New("a long line\nb")
	d.UpdateLine(0, "a")
	require.Equal(t, 11, d.LongestLineLength())

	d.SetText("a\nb")
	require.Equal(t, 1, d.LongestLineLength())
}

func TestInsertLineBreak(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		line, col int
		want      []string
		wantLine  int
	}{
		{"column zero inserts before", "abc\ndef", 1, 0, []string{"abc", "", "def"}, 2},
		{"end of line appends after", "abc\ndef", 0, 3, []string{"abc", "", "def"}, 1},
		{"middle splits", "abcdef", 0, 2, []string{"ab", "cdef"}, 1},
		{"empty line", "", 0, 0, []string{"", ""}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.text)
			line, col := d.InsertLineBreak(tt.line, tt.col)
			require.Equal(t, tt.want, d.Lines())
			require.Equal(t, tt.wantLine, line)
			require.Equal(t, 0, col)
		})
	}
}

func TestInsertLineBreak_Reindexes(t *testing.T) {
	d := New("abcdef")
	d.InsertLineBreak(0, 2)
	require.Equal(t, []int{0, 3}, d.LineStartIndexes())
}

func TestDeleteLineBreak(t *testing.T) {
	d := New("abc\ndef\nghi")
	line, col := d.DeleteLineBreak(1)

	require.Equal(t, []string{"abcdef", "ghi"}, d.Lines())
	require.Equal(t, 0, line)
	require.Equal(t, 3, col)
	require.Equal(t, []int{0, 7}, d.LineStartIndexes())
	require.Equal(t, 6, d.LongestLineLength())
}

func TestDeleteLineBreak_FirstLine(t *testing.T) {
	d := New("abc")
	line, col := d.DeleteLineBreak(0)
	require.Equal(t, []string{"abc"}, d.Lines())
	require.Zero(t, line)
	require.Zero(t, col)
}

func TestLineBreak_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z (){};]{0,12}`), 1, 8).Draw(t, "lines")
		d := New("")
		d.SetText(joinLines(lines))

		line := rapid.IntRange(0, d.LineCount()-1).Draw(t, "line")
		col := rapid.IntRange(0, d.LineLength(line)).Draw(t, "col")
		original := d.Line(line)
		count := d.LineCount()

		newLine, _ := d.InsertLineBreak(line, col)
		require.Equal(t, count+1, d.LineCount())

		gotLine, gotCol := d.DeleteLineBreak(newLine)
		require.Equal(t, line, gotLine)
		require.Equal(t, col, gotCol)
		require.Equal(t, original, d.Line(line))
		require.Equal(t, count, d.LineCount())
	})
}

func TestLineStartIndexes_MatchText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-zé]{0,10}`), 1, 10).Draw(t, "lines")
		d := New(joinLines(lines))

		edits := rapid.IntRange(0, 5).Draw(t, "edits")
		for i := 0; i < edits; i++ {
			line := rapid.IntRange(0, d.LineCount()-1).Draw(t, "editLine")
			d.UpdateLine(line, rapid.StringMatching(`[a-z]{0,15}`).Draw(t, "text"))
		}

		idx := d.LineStartIndexes()
		require.Equal(t, d.LineCount(), len(idx))
		require.Equal(t, 0, idx[0])
		for i := 0; i+1 < len(idx); i++ {
			require.Equal(t, idx[i]+d.LineLength(i)+1, idx[i+1])
		}
	})
}

func TestPositionFromIndex(t *testing.T) {
	d := New("hello\nworld\n\nend")

	tests := []struct {
		index     int
		line, col int
	}{
		{0, 0, 0},
		{5, 0, 5},
		{6, 1, 0},
		{11, 1, 5},
		{12, 2, 0},
		{13, 3, 0},
		{15, 3, 2},
	}
	for _, tt := range tests {
		line, col := d.PositionFromIndex(tt.index)
		require.Equal(t, tt.line, line, "index %d", tt.index)
		require.Equal(t, tt.col, col, "index %d", tt.index)
		require.Equal(t, tt.index, d.IndexFromPosition(line, col))
	}
}

func TestIndentAt(t *testing.T) {
	d := New("    if (x) {\n\tfoo(")

	indent, last := d.IndentAt(0, 12)
	require.Equal(t, "    ", indent)
	require.Equal(t, '{', last)

	indent, last = d.IndentAt(0, 2)
	require.Equal(t, "  ", indent)
	require.Equal(t, rune(0), last)

	indent, last = d.IndentAt(1, 5)
	require.Equal(t, "\t", indent)
	require.Equal(t, '(', last)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
