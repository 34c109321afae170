package vtlog

// Handler receives the operations decoded from the byte stream. Screen is the
// production implementation; MockScreen records calls for decoder tests.
type Handler interface {
	// Basic drawing
	Put(char []byte)
	Backspace()
	Tab()
	LineFeed()
	CarriageReturn()
	NextLine()
	AtWrapMargin() bool

	// Cursor movement
	CursorUp(count int)
	CursorDown(count int)
	CursorForward(count int)
	CursorBack(count int)
	CursorNextLine(count int)
	CursorPrevLine(count int)
	CursorPosition(line, column int)
	CursorToColumn(column int)
	CursorToLine(line int)
	LowerLeft()

	// Screen manipulation
	Reset()
	Index()
	ReverseIndex()
	SetTabStop()
	ClearTabStop(how int)
	SaveCursor()
	RestoreCursor()
	RestoreCursorPosition()
	AlignmentDisplay()

	// Line and character operations
	InsertLines(count int)
	DeleteLines(count int)
	InsertCharacters(count int)
	DeleteCharacters(count int)
	EraseCharacters(count int)
	EraseInLine(how int)
	EraseInDisplay(how int)
	ScrollUp(count int)
	ScrollDown(count int)

	// Modes
	SetMode(modes []int, private bool)
	ResetMode(modes []int, private bool)
	SelectCharset(slot byte, code byte)
	GraphicCharset() bool

	// Scrolling region
	SetMargins(top, bottom int)

	// Graphics
	SelectGraphicRendition(params []int)
}
