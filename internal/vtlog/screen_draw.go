package vtlog

var blank = []byte{SP}

// Put stores one complete character at the cursor and advances it.
func (s *Screen) Put(char []byte) {
	if len(char) == 0 {
		return
	}

	// Check if we need to wrap
	if s.cursorColumn() >= s.geo.Columns {
		if s.modes.Wraparound {
			s.NextLine()
		} else {
			s.cursorX = s.offsetOf(s.cursorY, s.geo.Columns-1)
		}
	}

	y, at := s.cursorY, s.cursorX
	end := s.contentEnd(y)
	attr := s.pen.Attr()
	n := Offset(len(char))

	switch {
	case s.modes.Insert:
		if s.insertBytes(y, at, char, attr) {
			s.cursorX = at + n
			s.truncateRow(y, s.geo.Columns)
		}
	case at >= end:
		if s.insertBytes(y, at, char, attr) {
			s.cursorX = at + n
		}
	default:
		if s.replaceBytes(y, at, s.charLen(at, end), char, attr) {
			s.cursorX = at + n
		}
	}
}

// AtWrapMargin reports whether the cursor sits one past the last column.
func (s *Screen) AtWrapMargin() bool {
	return s.cursorColumn() >= s.geo.Columns
}

func (s *Screen) Backspace() {
	s.cursorX = s.prevChar(s.cursorX, s.rowStart(s.cursorY))
}

// Tab writes blanks up to the next tab stop or the right margin.
func (s *Screen) Tab() {
	col := s.cursorColumn()
	if col >= s.geo.Columns {
		return
	}
	for {
		s.Put(blank)
		col++
		if col >= s.geo.Columns || s.tabstops[col] {
			break
		}
	}
}

func (s *Screen) CarriageReturn() {
	s.cursorX = s.rowStart(s.cursorY)
}

// LineFeed ends the current row. On the last row of a log it stores the
// newline so the flattened text keeps the line structure; on a grid it is an
// index.
func (s *Screen) LineFeed() {
	if !s.logMode() {
		s.Index()
		return
	}
	if y := s.cursorY; y == s.lastRow() && !s.hasNewline(y) {
		s.insertBytes(y, s.rowEnd(y), []byte{LF}, s.pen.Attr())
	}
	s.NextLine()
}

// NextLine moves the cursor to the start of the following row, opening a new
// row when the cursor is on the last one.
func (s *Screen) NextLine() {
	if !s.logMode() {
		s.down()
		s.cursorX = s.rowStart(s.cursorY)
		return
	}
	s.cursorY = s.ensureRow(s.cursorY + 1)
	s.follow()
	s.cursorX = s.rowStart(s.cursorY)
}

// down moves one row down on a grid, scrolling the region at its bottom.
func (s *Screen) down() {
	switch {
	case s.cursorY == s.regionBottom():
		y := s.cursorY
		s.deleteRegionRows(s.regionTop(), 1)
		s.cursorY = s.ensureRow(y)
	case s.cursorY < s.screenBottom():
		s.cursorY = s.ensureRow(s.cursorY + 1)
	}
}

// Index moves down one row keeping the column.
func (s *Screen) Index() {
	col := s.cursorColumn()
	if s.logMode() {
		s.cursorY = s.ensureRow(s.cursorY + 1)
		s.follow()
	} else {
		s.down()
	}
	s.moveTo(s.cursorY, col)
}

// ReverseIndex moves up one row, scrolling the region down at its top.
func (s *Screen) ReverseIndex() {
	y, col := s.cursorY, s.cursorColumn()
	switch {
	case y == s.regionTop():
		s.insertRegionRows(y, 1)
	case y > s.topRow:
		y--
	}
	s.moveTo(y, col)
}

func (s *Screen) CursorUp(count int) {
	floor := s.topRow
	if s.cursorY >= s.regionTop() {
		floor = s.regionTop()
	}
	y := s.cursorY - Row(count)
	if y < floor {
		y = floor
	}
	s.moveTo(y, s.cursorColumn())
}

func (s *Screen) CursorDown(count int) {
	ceil := s.screenBottom()
	if s.cursorY <= s.regionBottom() {
		ceil = s.regionBottom()
	}
	y := s.cursorY + Row(count)
	if y > ceil {
		y = ceil
	}
	s.moveTo(y, s.cursorColumn())
}

func (s *Screen) CursorForward(count int) {
	col := s.cursorColumn() + count
	if col > s.geo.Columns-1 {
		col = s.geo.Columns - 1
	}
	s.cursorX = s.seek(s.cursorY, col)
}

func (s *Screen) CursorBack(count int) {
	col := min(s.cursorColumn(), s.geo.Columns-1) - count
	if col < 0 {
		col = 0
	}
	s.cursorX = s.offsetOf(s.cursorY, col)
}

func (s *Screen) CursorNextLine(count int) {
	s.CursorDown(count)
	s.CarriageReturn()
}

func (s *Screen) CursorPrevLine(count int) {
	s.CursorUp(count)
	s.CarriageReturn()
}

// CursorToColumn moves to the 1-based column.
func (s *Screen) CursorToColumn(column int) {
	col := column - 1
	if col < 0 {
		col = 0
	}
	if col > s.geo.Columns-1 {
		col = s.geo.Columns - 1
	}
	s.cursorX = s.seek(s.cursorY, col)
}

// CursorToLine moves to the 1-based line keeping the column.
func (s *Screen) CursorToLine(line int) {
	s.moveTo(s.lineTarget(line), s.cursorColumn())
}

// CursorPosition moves to the 1-based (line, column).
func (s *Screen) CursorPosition(line, column int) {
	s.moveTo(s.lineTarget(line), column-1)
}

// lineTarget maps a 1-based line to a row. In a log, a line below the
// visible window opens one new row instead of clamping, so the window
// scrolls down by one.
func (s *Screen) lineTarget(line int) Row {
	line--
	if line < 0 {
		line = 0
	}
	base, limit := s.topRow, s.geo.Rows-1
	if s.modes.Origin {
		base, limit = s.regionTop(), s.scrollBottom-s.scrollTop
	}
	if line > limit {
		if s.logMode() && !s.modes.Origin {
			return s.screenBottom() + 1
		}
		return base + Row(limit)
	}
	return base + Row(line)
}

func (s *Screen) LowerLeft() {
	s.moveTo(s.screenBottom(), 0)
}
