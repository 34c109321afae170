package vtlog

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkInvariants(t *testing.T, s *Screen) {
	t.Helper()

	require.Equal(t, Offset(0), s.lines[0])
	require.GreaterOrEqual(t, s.rows, 1)
	require.LessOrEqual(t, s.rows, s.rowCap())
	for y := 0; y < s.rows; y++ {
		if s.lines[y] > s.lines[y+1] {
			t.Fatalf("row %d offsets out of order: %d > %d", y, s.lines[y], s.lines[y+1])
		}
	}
	require.LessOrEqual(t, int(s.used()), s.geo.Capacity())

	require.GreaterOrEqual(t, s.cursorY, Row(0))
	require.LessOrEqual(t, s.cursorY, s.lastRow())
	require.GreaterOrEqual(t, s.cursorX, s.rowStart(s.cursorY))
	require.LessOrEqual(t, s.cursorX, s.contentEnd(s.cursorY))
	if s.cursorX < s.used() {
		require.False(t, isContinuation(s.chars[s.cursorX]), "cursor on a continuation byte")
	}

	require.GreaterOrEqual(t, s.topRow, Row(0))
	require.LessOrEqual(t, s.topRow, s.cursorY)
	require.LessOrEqual(t, s.cursorY, s.screenBottom())

	for y := Row(0); y <= s.lastRow(); y++ {
		start, end := s.rowStart(y), s.rowEnd(y)
		if end > start && isContinuation(s.chars[start]) {
			t.Fatalf("row %d starts inside a character", y)
		}
		if end > start && bytes.IndexByte(s.chars[start:end-1], LF) >= 0 {
			t.Fatalf("newline inside row %d", y)
		}
	}
}

func newTestScreen(columns, rows int) (*Screen, *Decoder) {
	g := DefaultGeometry()
	g.Columns, g.Rows = columns, rows
	s := NewScreen(g)
	return s, NewDecoder(s, false)
}

func TestGeometryNormalize(t *testing.T) {
	g := Geometry{}.normalize()
	assert.Equal(t, DefaultGeometry(), g)
	assert.Equal(t, 262144, g.Capacity())
	assert.Equal(t, 32, g.HalfLines())

	wide := Geometry{Columns: 1000, Rows: 10, LineSize: 16, LineCount: 1}.normalize()
	assert.Equal(t, maxTabStops, wide.Columns)
	assert.Equal(t, 4, wide.LineCount)
	assert.GreaterOrEqual(t, wide.LineSize, (maxTabStops*4+1)*2)
}

func TestScreenCharacterHelpers(t *testing.T) {
	s, d := newTestScreen(80, 24)
	d.Feed([]byte("aé✓b"))

	y := s.cursorY
	start, end := s.rowStart(y), s.contentEnd(y)
	assert.Equal(t, 4, s.countChars(start, end))
	assert.Equal(t, 2, s.charLen(start+1, end))
	assert.Equal(t, 3, s.charLen(start+3, end))
	assert.Equal(t, start+6, s.offsetOf(y, 3))
	assert.Equal(t, start+3, s.prevChar(start+6, start))
	assert.Equal(t, start+6, s.nextChar(start+3, end))
	assert.Equal(t, 4, s.cursorColumn())

	d.Feed([]byte("\b\b"))
	assert.Equal(t, start+3, s.cursorX)
	checkInvariants(t, s)
}

func TestScreenRowOffsets(t *testing.T) {
	s, d := newTestScreen(80, 24)
	d.Feed([]byte("one\ntwo\nthree"))

	assert.Equal(t, 3, s.rows)
	assert.Equal(t, []Offset{0, 4, 8, 13}, s.lines[:4])
	assert.True(t, s.hasNewline(0))
	assert.False(t, s.hasNewline(2))
	checkInvariants(t, s)

	// Editing an earlier row shifts every later offset.
	d.Feed([]byte("\x1b[1;1H\x1b[2@"))
	assert.Equal(t, []Offset{0, 6, 10, 15}, s.lines[:4])
	assert.Equal(t, "  one\ntwo\nthree", s.Text())
	checkInvariants(t, s)
}

func TestScreenCompactionRebases(t *testing.T) {
	s, d := newTestScreen(80, 24)
	for i := 0; i < 4093; i++ {
		d.Feed([]byte("row\n"))
	}
	require.Equal(t, 4094, s.rows)
	require.Equal(t, 0, s.compactions)

	d.Feed([]byte("\x1b[20;1H\x1b7\x1b[24;1Hlast\n"))
	assert.Equal(t, 1, s.compactions)
	assert.Equal(t, int64(s.geo.HalfLines()), s.droppedRows)
	assert.Equal(t, 4094-s.geo.HalfLines()+1, s.rows)
	checkInvariants(t, s)

	// The saved cursor row moved with the rows.
	d.Feed([]byte("\x1b8X"))
	assert.Equal(t, Row(4089-s.geo.HalfLines()), s.cursorY)
	checkInvariants(t, s)
}

func TestScreenFillPreservesColumns(t *testing.T) {
	s, d := newTestScreen(80, 24)
	d.Feed([]byte("ééééé\x1b[3G\x1b[K"))
	assert.Equal(t, "éé   ", s.Text())
	assert.Equal(t, 2, s.cursorColumn())
	checkInvariants(t, s)
}

func TestScreenTabStops(t *testing.T) {
	s, d := newTestScreen(80, 24)
	d.Feed([]byte("\x1b[3g\x1b[5G\x1bH\x1b[1G\tx"))
	assert.Equal(t, "    x", s.Text())

	d.Feed([]byte("\x1b[5G\x1b[g\r\n\tx"))
	// Without stops the tab runs to the margin and the next character wraps.
	assert.Equal(t, strings.Repeat(" ", 80)+"x", strings.Split(s.Text(), "\n")[1])
	checkInvariants(t, s)
}

func TestScreenOriginMode(t *testing.T) {
	s, d := newTestScreen(10, 6)
	d.Feed([]byte("\x1b[?1049h\x1b[3;5r\x1b[?6h"))
	assert.Equal(t, s.topRow+2, s.cursorY)

	d.Feed([]byte("\x1b[9;1H"))
	assert.Equal(t, s.topRow+4, s.cursorY)
	checkInvariants(t, s)
}

// TestScreenRandomInput drives the screen with a mix of text, controls and
// sequences and checks the structural invariants after every chunk.
func TestScreenRandomInput(t *testing.T) {
	vocabulary := []string{
		"a", "hello ", "é", "漢字", "✓", "😀", "\r", "\n", "\r\n", "\b", "\t",
		"\x1b[A", "\x1b[5B", "\x1b[3C", "\x1b[9D", "\x1b[2E", "\x1b[F", "\x1b[7G",
		"\x1b[H", "\x1b[3;4H", "\x1b[40;90H", "\x1b[4d", "\x1b[J", "\x1b[1J",
		"\x1b[2J", "\x1b[K", "\x1b[1K", "\x1b[2K", "\x1b[2L", "\x1b[M", "\x1b[3@",
		"\x1b[2P", "\x1b[4X", "\x1b[S", "\x1b[2T", "\x1b[2;6r", "\x1b[r",
		"\x1b[?6h", "\x1b[?6l", "\x1b[?7l", "\x1b[?7h", "\x1b[4h", "\x1b[4l",
		"\x1b[?1049h", "\x1b[?1049l", "\x1b7", "\x1b8", "\x1b[s", "\x1b[u",
		"\x1bD", "\x1bM", "\x1bE", "\x1bF", "\x1bc", "\x1b#8", "\x1b(0q\x1b(B",
		"\x1b[31;1m", "\x1b[0m", "\x1b[3g", "\x1bH", "\x80", "\xc3", "\xff\xfb\x01",
		strings.Repeat("x", 30),
	}

	rng := rand.New(rand.NewSource(7))
	for _, geo := range []Geometry{
		{Columns: 12, Rows: 6, LineSize: 128, LineCount: 8},
		{Columns: 80, Rows: 24},
	} {
		s := NewScreen(geo)
		d := NewDecoder(s, false)
		for i := 0; i < 5000; i++ {
			d.Feed([]byte(vocabulary[rng.Intn(len(vocabulary))]))
			checkInvariants(t, s)
		}
	}
}
