package vtlog

import "bytes"

// ---- erase ----

func (s *Screen) EraseInLine(how int) {
	y, col := s.cursorY, s.cursorColumn()
	start, end := s.rowStart(y), s.contentEnd(y)
	switch how {
	case 0:
		s.fill(y, s.cursorX, end)
	case 1:
		s.fill(y, start, s.nextChar(s.cursorX, end))
	case 2:
		s.fill(y, start, end)
	default:
		return
	}
	s.cursorX = s.offsetOf(y, col)
}

// EraseInDisplay blanks part of the grid. In a log, erasing below the cursor
// (and erasing everything) truncates the rows after the cursor row instead
// of blanking cells.
func (s *Screen) EraseInDisplay(how int) {
	switch how {
	case 0:
		s.EraseInLine(0)
		s.clearBelow()
	case 1:
		for y := s.topRow; y < s.cursorY; y++ {
			s.fill(y, s.rowStart(y), s.contentEnd(y))
		}
		s.EraseInLine(1)
	case 2, 3:
		if !s.modes.AltScreen {
			s.clearBelow()
			return
		}
		col := s.cursorColumn()
		for y := s.topRow; y <= s.screenBottom() && y <= s.lastRow(); y++ {
			s.fill(y, s.rowStart(y), s.contentEnd(y))
		}
		s.cursorX = s.offsetOf(s.cursorY, col)
	}
}

func (s *Screen) clearBelow() {
	if !s.modes.AltScreen {
		s.removeRows(s.cursorY+1, s.lastRow())
		return
	}
	for y := s.cursorY + 1; y <= s.screenBottom() && y <= s.lastRow(); y++ {
		s.fill(y, s.rowStart(y), s.contentEnd(y))
	}
}

// ---- characters ----

// InsertCharacters opens count blanks at the cursor; characters pushed past
// the right margin are lost.
func (s *Screen) InsertCharacters(count int) {
	y, at := s.cursorY, s.cursorX
	if at >= s.contentEnd(y) {
		return
	}
	count = min(count, s.geo.Columns)
	if s.insertBytes(y, at, spaces(count), DefaultAttr) {
		s.truncateRow(y, s.geo.Columns)
	}
}

func (s *Screen) DeleteCharacters(count int) {
	y, at := s.cursorY, s.cursorX
	end := s.contentEnd(y)
	x := at
	for i := 0; i < count && x < end; i++ {
		x = s.nextChar(x, end)
	}
	s.deleteBytes(y, at, int(x-at))
}

func (s *Screen) EraseCharacters(count int) {
	y, at := s.cursorY, s.cursorX
	end := s.contentEnd(y)
	x := at
	for i := 0; i < count && x < end; i++ {
		x = s.nextChar(x, end)
	}
	s.fill(y, at, x)
	s.cursorX = at
}

// truncateRow keeps at most cols characters of row y.
func (s *Screen) truncateRow(y Row, cols int) {
	cut, end := s.offsetOf(y, cols), s.contentEnd(y)
	if cut < end {
		s.deleteBytes(y, cut, int(end-cut))
	}
}

// ---- lines ----

// insertRegionRows opens n blank rows at y; rows pushed past the bottom of
// the scrolling region are dropped.
func (s *Screen) insertRegionRows(y Row, n int) {
	bottom := s.regionBottom()
	if n <= 0 || y > bottom || y > s.lastRow() {
		return
	}
	n = min(n, int(bottom-y)+1)
	if s.lastRow() > bottom-Row(n) {
		s.removeRows(max(bottom-Row(n)+1, y), bottom)
	}
	s.insertRows(y, n)
}

// deleteRegionRows removes n rows at y and opens blank rows at the bottom of
// the scrolling region, so rows below the region keep their place.
func (s *Screen) deleteRegionRows(y Row, n int) {
	bottom := s.regionBottom()
	if n <= 0 || y > bottom {
		return
	}
	n = min(n, int(bottom-y)+1)
	below := s.lastRow() > bottom
	removed := s.removeRows(y, y+Row(n)-1)
	if below && removed > 0 {
		s.insertRows(bottom-Row(removed)+1, removed)
	}
}

func (s *Screen) InsertLines(count int) {
	y := s.cursorY
	if y < s.regionTop() || y > s.regionBottom() {
		return
	}
	s.insertRegionRows(y, count)
	s.moveTo(y, 0)
}

func (s *Screen) DeleteLines(count int) {
	y := s.cursorY
	if y < s.regionTop() || y > s.regionBottom() {
		return
	}
	s.deleteRegionRows(y, count)
	s.moveTo(y, 0)
}

// ScrollUp moves the region content up, blank rows enter at the bottom.
func (s *Screen) ScrollUp(count int) {
	y, col := s.cursorY, s.cursorColumn()
	s.deleteRegionRows(s.regionTop(), count)
	s.moveTo(y, col)
}

// ScrollDown moves the region content down, blank rows enter at the top.
func (s *Screen) ScrollDown(count int) {
	y, col := s.cursorY, s.cursorColumn()
	s.insertRegionRows(s.regionTop(), count)
	s.moveTo(y, col)
}

// SetMargins sets the 1-based scrolling region. 0 or an inverted pair
// selects the whole screen.
func (s *Screen) SetMargins(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > s.geo.Rows {
		bottom = s.geo.Rows
	}
	if top >= bottom {
		top, bottom = 1, s.geo.Rows
	}
	s.scrollTop, s.scrollBottom = top-1, bottom-1
	if s.modes.Origin {
		s.moveTo(s.regionTop(), 0)
	} else {
		s.moveTo(s.topRow, 0)
	}
}

// ---- cursor register and tabs ----

func (s *Screen) SaveCursor() {
	s.saved = savedCursor{y: s.cursorY, col: s.cursorColumn(), pen: s.pen}
}

func (s *Screen) RestoreCursor() {
	s.pen = s.saved.pen
	s.RestoreCursorPosition()
}

func (s *Screen) RestoreCursorPosition() {
	s.moveTo(s.saved.y, s.saved.col)
}

func (s *Screen) SetTabStop() {
	if col := s.cursorColumn(); col < maxTabStops {
		s.tabstops[col] = true
	}
}

// ClearTabStop clears the stop at the cursor (0) or every stop (3).
func (s *Screen) ClearTabStop(how int) {
	switch how {
	case 0:
		if col := s.cursorColumn(); col < maxTabStops {
			s.tabstops[col] = false
		}
	case 3:
		s.tabstops = [maxTabStops]bool{}
	}
}

// ---- modes ----

func (s *Screen) SetMode(modes []int, private bool) { s.setModes(modes, private, true) }

func (s *Screen) ResetMode(modes []int, private bool) { s.setModes(modes, private, false) }

func (s *Screen) setModes(modes []int, private, on bool) {
	for _, m := range modes {
		if !private {
			if m == IRM {
				s.modes.Insert = on
			}
			continue
		}
		switch m {
		case DECCKM:
			s.modes.AppCursor = on
		case DECOM:
			s.modes.Origin = on
			s.moveTo(s.lineTarget(1), 0)
		case DECAWM:
			s.modes.Wraparound = on
		case DECTCEM:
			s.modes.CursorVisible = on
		case BracketedPaste:
			s.modes.BracketedPaste = on
		case AltScreenOld, AltScreen1047, AltScreen1049:
			if on {
				s.enterAltScreen()
			} else {
				s.leaveAltScreen()
			}
		}
	}
}

// enterAltScreen starts a grid on a fresh row after everything stored so
// far. The log above it stays in the history.
func (s *Screen) enterAltScreen() {
	if s.modes.AltScreen {
		return
	}
	s.SaveCursor()
	s.freshRow()
	s.modes.AltScreen = true
	s.scrollTop, s.scrollBottom = 0, s.geo.Rows-1
	s.topRow = s.cursorY
}

// leaveAltScreen drops the rows below the cursor and continues the log on a
// fresh row with the window rebased onto the bottom.
func (s *Screen) leaveAltScreen() {
	if !s.modes.AltScreen {
		return
	}
	s.removeRows(s.cursorY+1, s.lastRow())
	s.modes.AltScreen = false
	s.scrollTop, s.scrollBottom = 0, s.geo.Rows-1
	s.pen = s.saved.pen
	s.freshRow()
	s.topRow = max(0, s.cursorY-Row(s.geo.Rows)+1)
}

// freshRow moves the cursor to an empty row after every stored row,
// terminating the current last row with a newline.
func (s *Screen) freshRow() {
	y := s.lastRow()
	s.cursorY = y
	if s.rowEnd(y) > s.rowStart(y) {
		if !s.hasNewline(y) {
			s.insertBytes(y, s.rowEnd(y), []byte{LF}, DefaultAttr)
		}
		y = s.ensureRow(y + 1)
	}
	s.cursorY = y
	s.cursorX = s.rowStart(y)
}

// SelectCharset handles ESC ( c and ESC ) c. Only the DEC special graphics
// set ('0') is distinguished; anything else selects plain ASCII.
func (s *Screen) SelectCharset(slot byte, code byte) {
	if slot == introG0 || slot == introG1 {
		s.modes.GraphicCharset = code == '0'
	}
}

func (s *Screen) GraphicCharset() bool { return s.modes.GraphicCharset }

func (s *Screen) SelectGraphicRendition(params []int) {
	s.pen.applySGR(params)
}

// ---- whole screen ----

// AlignmentDisplay fills the visible window with 'E' (DECALN).
func (s *Screen) AlignmentDisplay() {
	row := bytes.Repeat([]byte{'E'}, s.geo.Columns)
	for i := 0; i < s.geo.Rows; i++ {
		y := s.ensureRow(s.topRow + Row(i))
		start, end := s.rowStart(y), s.contentEnd(y)
		s.replaceBytes(y, start, int(end-start), row, DefaultAttr)
	}
	s.moveTo(s.topRow, 0)
}

// Reset returns to power-on state. Stored history is kept; the window starts
// over on a fresh row.
func (s *Screen) Reset() {
	s.leaveAltScreen()
	s.removeRows(s.cursorY+1, s.lastRow())
	s.resetState()
	s.freshRow()
	s.topRow = s.cursorY
	s.saved.y = s.cursorY
}
