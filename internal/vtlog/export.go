package vtlog

import "github.com/mattn/go-runewidth"

// Run is a stretch of one row sharing one attribute.
type Run struct {
	Text   string
	Attr   Attr
	Fg     uint8 // palette index without the bright bit
	Bg     uint8
	Bright bool
	Width  int // display cells
}

// Frame is a snapshot of the visible window.
type Frame struct {
	Rows          [][]Run
	Columns       int
	CursorVisible bool
	CursorRow     int
	CursorCol     int
	AltScreen     bool
	Version       uint64
}

// Text returns the frame rows as plain strings.
func (f Frame) Text() []string {
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		for _, r := range row {
			out[i] += r.Text
		}
	}
	return out
}

// export snapshots up to Rows rows starting scrollback rows above the
// visible top row.
func (s *Screen) export(scrollback int) Frame {
	start := s.topRow - Row(max(scrollback, 0))
	if start < 0 {
		start = 0
	}

	rows := make([][]Run, 0, s.geo.Rows)
	for y := start; y < start+Row(s.geo.Rows) && y <= s.lastRow(); y++ {
		rows = append(rows, s.runs(y))
	}

	f := Frame{
		Rows:      rows,
		Columns:   s.geo.Columns,
		CursorRow: int(s.cursorY - start),
		CursorCol: min(s.cursorColumn(), s.geo.Columns-1),
		AltScreen: s.modes.AltScreen,
	}
	f.CursorVisible = s.modes.CursorVisible && f.CursorRow >= 0 && f.CursorRow < s.geo.Rows
	return f
}

// runs splits row y at attribute changes. The stored newline is not part of
// any run.
func (s *Screen) runs(y Row) []Run {
	var out []Run
	end := s.contentEnd(y)
	for x := s.rowStart(y); x < end; {
		a := s.attrs[x]
		j := x + 1
		for j < end && s.attrs[j] == a {
			j++
		}
		text := string(s.chars[x:j])
		out = append(out, Run{
			Text:   text,
			Attr:   a,
			Fg:     a.Fg() &^ brightBit,
			Bg:     a.Bg(),
			Bright: a.Bright(),
			Width:  runewidth.StringWidth(text),
		})
		x = j
	}
	return out
}

// Stats describes arena usage.
type Stats struct {
	Rows             int
	UsedBytes        int
	Capacity         int
	Compactions      int
	DroppedRows      int64
	ClippedBytes     int64
	DroppedSequences int
	Version          uint64
}

func (s *Screen) stats() Stats {
	return Stats{
		Rows:         s.rows,
		UsedBytes:    int(s.used()),
		Capacity:     s.geo.Capacity(),
		Compactions:  s.compactions,
		DroppedRows:  s.droppedRows,
		ClippedBytes: s.clipped,
	}
}
