package vtlog

import "bytes"

// Offset is a byte index into the screen arena.
type Offset int

// Row is an index into the row offsets table.
type Row int

// Geometry sizes the visible window and the backing arena.
type Geometry struct {
	Columns   int
	Rows      int
	LineSize  int
	LineCount int
}

const (
	maxTabStops = 256
	tabWidth    = 8

	// rowMargin keeps a few spare row slots so an in-flight operation never
	// runs out of offsets before compaction catches up.
	rowMargin = 2
)

// DefaultGeometry is an 80x24 window over a 4096x64 arena.
func DefaultGeometry() Geometry {
	return Geometry{Columns: 80, Rows: 24, LineSize: 4096, LineCount: 64}
}

// Capacity is the arena size in bytes.
func (g Geometry) Capacity() int { return g.LineSize * g.LineCount }

// HalfLines is the number of rows dropped by one compaction step.
func (g Geometry) HalfLines() int { return g.LineCount / 2 }

func (g Geometry) normalize() Geometry {
	def := DefaultGeometry()
	if g.Columns <= 0 {
		g.Columns = def.Columns
	}
	if g.Columns > maxTabStops {
		g.Columns = maxTabStops
	}
	if g.Rows <= 0 {
		g.Rows = def.Rows
	}
	if g.LineSize <= 0 {
		g.LineSize = def.LineSize
	}
	if g.LineCount <= 0 {
		g.LineCount = def.LineCount
	}
	// A full visible screen of widest characters must fit in the slack kept
	// free by compaction.
	if floor := (g.Columns*4 + 1) * 2; g.LineSize < floor {
		g.LineSize = floor
	}
	if g.LineCount < 4 {
		g.LineCount = 4
	}
	if g.Rows > g.LineSize-rowMargin-g.HalfLines() {
		g.Rows = g.LineSize - rowMargin - g.HalfLines()
	}
	return g
}

type savedCursor struct {
	y   Row
	col int
	pen Pen
}

// Screen is the log-oriented character grid. Rows are variable-length byte
// ranges of one contiguous arena; lines[y] is the first byte of row y and
// lines[rows] is the end of the used data. A Screen is not safe for
// concurrent use, Terminal provides the locking.
type Screen struct {
	geo Geometry

	chars []byte
	attrs []Attr
	lines []Offset
	rows  int

	cursorX Offset
	cursorY Row
	topRow  Row

	scrollTop    int
	scrollBottom int

	saved    savedCursor
	tabstops [maxTabStops]bool
	pen      Pen
	modes    Modes

	compactions int
	droppedRows int64
	clipped     int64
}

var _ Handler = (*Screen)(nil)

// NewScreen allocates the arena for g.
func NewScreen(g Geometry) *Screen {
	g = g.normalize()
	s := &Screen{
		geo:   g,
		chars: make([]byte, g.Capacity()),
		attrs: make([]Attr, g.Capacity()),
		lines: make([]Offset, g.LineSize+1),
		rows:  1,
	}
	s.resetState()
	return s
}

func (s *Screen) resetState() {
	s.pen = DefaultPen()
	s.modes = Modes{Wraparound: true, CursorVisible: true}
	s.scrollTop = 0
	s.scrollBottom = s.geo.Rows - 1
	s.saved = savedCursor{y: s.topRow, pen: DefaultPen()}
	s.resetTabStops()
}

func (s *Screen) resetTabStops() {
	for i := range s.tabstops {
		s.tabstops[i] = i > 0 && i%tabWidth == 0
	}
}

// Geometry returns the normalized geometry in use.
func (s *Screen) Geometry() Geometry { return s.geo }

// Modes returns a copy of the mode flags.
func (s *Screen) Modes() Modes { return s.modes }

// Text returns every stored byte, newlines included.
func (s *Screen) Text() string { return string(s.chars[:s.used()]) }

// ---- arena helpers ----

func (s *Screen) used() Offset { return s.lines[s.rows] }

func (s *Screen) lastRow() Row { return Row(s.rows - 1) }

func (s *Screen) rowCap() int { return s.geo.LineSize }

func (s *Screen) rowStart(y Row) Offset { return s.lines[y] }

func (s *Screen) rowEnd(y Row) Offset { return s.lines[y+1] }

// contentEnd is the end of the row without its trailing newline.
func (s *Screen) contentEnd(y Row) Offset {
	start, end := s.lines[y], s.lines[y+1]
	if end > start && s.chars[end-1] == LF {
		return end - 1
	}
	return end
}

func (s *Screen) hasNewline(y Row) bool { return s.contentEnd(y) != s.rowEnd(y) }

func (s *Screen) screenBottom() Row { return s.topRow + Row(s.geo.Rows) - 1 }

func (s *Screen) regionTop() Row { return s.topRow + Row(s.scrollTop) }

func (s *Screen) regionBottom() Row { return s.topRow + Row(s.scrollBottom) }

func (s *Screen) fullRegion() bool {
	return s.scrollTop == 0 && s.scrollBottom == s.geo.Rows-1
}

// logMode is true when the screen grows like a log instead of scrolling a
// fixed grid in place.
func (s *Screen) logMode() bool { return !s.modes.AltScreen && s.fullRegion() }

func isContinuation(b byte) bool { return b&0xc0 == 0x80 }

// charLen returns the byte length of the character starting at x.
func (s *Screen) charLen(x, limit Offset) int {
	n := 1
	for x+Offset(n) < limit && isContinuation(s.chars[x+Offset(n)]) {
		n++
	}
	return n
}

func (s *Screen) nextChar(x, limit Offset) Offset {
	if x >= limit {
		return limit
	}
	return x + Offset(s.charLen(x, limit))
}

func (s *Screen) prevChar(x, floor Offset) Offset {
	if x <= floor {
		return floor
	}
	x--
	for x > floor && isContinuation(s.chars[x]) {
		x--
	}
	return x
}

// countChars counts characters in [from, to).
func (s *Screen) countChars(from, to Offset) int {
	n := 0
	for x := from; x < to; x++ {
		if !isContinuation(s.chars[x]) {
			n++
		}
	}
	return n
}

// column is the character column of x on row y.
func (s *Screen) column(y Row, x Offset) int {
	return s.countChars(s.rowStart(y), x)
}

func (s *Screen) cursorColumn() int { return s.column(s.cursorY, s.cursorX) }

// offsetOf finds column col on row y without modifying the row. It returns
// the content end when the row is shorter.
func (s *Screen) offsetOf(y Row, col int) Offset {
	x, end := s.rowStart(y), s.contentEnd(y)
	for i := 0; i < col && x < end; i++ {
		x = s.nextChar(x, end)
	}
	return x
}

// seek returns the offset of column col on row y, padding the row with
// spaces when it is shorter.
func (s *Screen) seek(y Row, col int) Offset {
	x, end := s.rowStart(y), s.contentEnd(y)
	for i := 0; i < col; i++ {
		if x >= end {
			pad := col - i
			if !s.insertBytes(y, end, spaces(pad), DefaultAttr) {
				return end
			}
			return end + Offset(pad)
		}
		x = s.nextChar(x, end)
	}
	return x
}

func spaces(n int) []byte { return bytes.Repeat([]byte{SP}, n) }

// insertBytes opens data at offset at, which belongs to row y. Later rows
// shift right. It returns false, storing nothing, when the arena is full.
func (s *Screen) insertBytes(y Row, at Offset, data []byte, attr Attr) bool {
	n := Offset(len(data))
	if n == 0 {
		return true
	}
	used := s.used()
	if int(used+n) > len(s.chars) {
		s.clipped += int64(n)
		return false
	}
	copy(s.chars[at+n:used+n], s.chars[at:used])
	copy(s.attrs[at+n:used+n], s.attrs[at:used])
	copy(s.chars[at:], data)
	for i := at; i < at+n; i++ {
		s.attrs[i] = attr
	}
	for k := y + 1; int(k) <= s.rows; k++ {
		s.lines[k] += n
	}
	if s.cursorY > y || (s.cursorY == y && s.cursorX > at) {
		s.cursorX += n
	}
	return true
}

// deleteBytes removes n bytes at offset at of row y.
func (s *Screen) deleteBytes(y Row, at Offset, n int) {
	if n <= 0 {
		return
	}
	d := Offset(n)
	used := s.used()
	copy(s.chars[at:], s.chars[at+d:used])
	copy(s.attrs[at:], s.attrs[at+d:used])
	for k := y + 1; int(k) <= s.rows; k++ {
		s.lines[k] -= d
	}
	switch {
	case s.cursorY > y, s.cursorY == y && s.cursorX >= at+d:
		s.cursorX -= d
	case s.cursorY == y && s.cursorX > at:
		s.cursorX = at
	}
}

// replaceBytes swaps the oldLen bytes at offset at for data.
func (s *Screen) replaceBytes(y Row, at Offset, oldLen int, data []byte, attr Attr) bool {
	if grow := len(data) - oldLen; grow > 0 && int(s.used())+grow > len(s.chars) {
		s.clipped += int64(grow)
		return false
	}
	s.deleteBytes(y, at, oldLen)
	return s.insertBytes(y, at, data, attr)
}

// fill overwrites the characters in [from, to) of row y with blanks at the
// default attribute. The character count of the row does not change.
func (s *Screen) fill(y Row, from, to Offset) {
	if to <= from {
		return
	}
	s.replaceBytes(y, from, int(to-from), spaces(s.countChars(from, to)), DefaultAttr)
}

// removeRows drops rows [from, to] and returns how many went away. At least
// one (empty) row always remains.
func (s *Screen) removeRows(from, to Row) int {
	last := s.lastRow()
	if to > last {
		to = last
	}
	if from < 0 || from > to {
		return 0
	}
	count := int(to-from) + 1
	lo, hi := s.lines[from], s.lines[to+1]
	delta := hi - lo
	used := s.used()
	copy(s.chars[lo:], s.chars[hi:used])
	copy(s.attrs[lo:], s.attrs[hi:used])
	for k := int(from); k+count <= s.rows; k++ {
		s.lines[k] = s.lines[k+count] - delta
	}
	s.rows -= count
	if s.rows == 0 {
		s.rows = 1
		s.lines[1] = s.lines[0]
	}

	switch {
	case s.cursorY > to:
		s.cursorY -= Row(count)
		s.cursorX -= delta
	case s.cursorY >= from:
		s.cursorY = from
		if s.cursorY > s.lastRow() {
			s.cursorY = s.lastRow()
		}
		s.cursorX = s.rowStart(s.cursorY)
	}
	if s.topRow > s.lastRow() {
		s.topRow = s.lastRow()
	}
	return count
}

// insertRows opens n empty rows before row at.
func (s *Screen) insertRows(at Row, n int) bool {
	if n <= 0 {
		return true
	}
	if s.rows+n > s.rowCap() {
		return false
	}
	copy(s.lines[int(at)+n:s.rows+n+1], s.lines[at:s.rows+1])
	for k := at; k < at+Row(n); k++ {
		s.lines[k] = s.lines[at+Row(n)]
	}
	s.rows += n
	if s.cursorY >= at {
		s.cursorY += Row(n)
	}
	return true
}

// compact drops the oldest min(HalfLines, cursorY) rows and rebases every
// stored row index and offset. It returns the number of rows dropped.
func (s *Screen) compact() int {
	k := s.geo.HalfLines()
	if int(s.cursorY) < k {
		k = int(s.cursorY)
	}
	if k <= 0 {
		return 0
	}
	delta := s.lines[k]
	used := s.used()
	copy(s.chars, s.chars[delta:used])
	copy(s.attrs, s.attrs[delta:used])
	for i := 0; i+k <= s.rows; i++ {
		s.lines[i] = s.lines[i+k] - delta
	}
	s.rows -= k

	s.cursorY -= Row(k)
	s.cursorX -= delta
	if s.cursorX < 0 {
		s.cursorX = 0
	}
	s.topRow -= Row(k)
	if s.topRow < 0 {
		s.topRow = 0
	}
	s.saved.y -= Row(k)
	if s.saved.y < 0 {
		s.saved.y = 0
	}
	s.compactions++
	s.droppedRows += int64(k)
	return k
}

// openRow appends an empty row, compacting first when the arena is close to
// either limit. shift reports how many rows compaction dropped.
func (s *Screen) openRow() (shift int, ok bool) {
	if s.rows+1 > s.rowCap()-rowMargin || int(s.used()) > s.geo.Capacity()-s.geo.LineSize {
		shift = s.compact()
	}
	if s.rows >= s.rowCap() {
		return shift, false
	}
	s.lines[s.rows+1] = s.lines[s.rows]
	s.rows++
	return shift, true
}

// ensureRow makes row y exist and returns its index after any compaction.
func (s *Screen) ensureRow(y Row) Row {
	for s.lastRow() < y {
		shift, ok := s.openRow()
		y -= Row(shift)
		if !ok {
			return s.lastRow()
		}
	}
	return y
}

// moveTo places the cursor at (y, col). Rows below the last one are opened
// and the visible window follows the cursor down.
func (s *Screen) moveTo(y Row, col int) {
	if y < s.topRow {
		y = s.topRow
	}
	if col < 0 {
		col = 0
	}
	if col > s.geo.Columns-1 {
		col = s.geo.Columns - 1
	}
	s.cursorY = s.ensureRow(y)
	s.follow()
	s.cursorX = s.seek(s.cursorY, col)
}

// follow scrolls the visible window so it contains the cursor row.
func (s *Screen) follow() {
	if s.cursorY > s.screenBottom() {
		s.topRow = s.cursorY - Row(s.geo.Rows) + 1
	}
	if s.topRow > s.cursorY {
		s.topRow = s.cursorY
	}
	if s.topRow < 0 {
		s.topRow = 0
	}
}
