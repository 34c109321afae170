package vtlog

import "fmt"

// MockScreen is a Handler that logs all calls
type MockScreen struct {
	Calls   []string
	Graphic bool
	AtWrap  bool
}

func NewMockScreen() *MockScreen {
	return &MockScreen{
		Calls: make([]string, 0),
	}
}

func (s *MockScreen) log(method string, args ...interface{}) {
	s.Calls = append(s.Calls, fmt.Sprintf("%s%v", method, args))
}

func (s *MockScreen) Put(char []byte)                     { s.log("Put", string(char)) }
func (s *MockScreen) Backspace()                          { s.log("Backspace") }
func (s *MockScreen) Tab()                                { s.log("Tab") }
func (s *MockScreen) LineFeed()                           { s.log("LineFeed") }
func (s *MockScreen) CarriageReturn()                     { s.log("CarriageReturn") }
func (s *MockScreen) NextLine()                           { s.log("NextLine") }
func (s *MockScreen) CursorUp(count int)                  { s.log("CursorUp", count) }
func (s *MockScreen) CursorDown(count int)                { s.log("CursorDown", count) }
func (s *MockScreen) CursorForward(count int)             { s.log("CursorForward", count) }
func (s *MockScreen) CursorBack(count int)                { s.log("CursorBack", count) }
func (s *MockScreen) CursorNextLine(count int)            { s.log("CursorNextLine", count) }
func (s *MockScreen) CursorPrevLine(count int)            { s.log("CursorPrevLine", count) }
func (s *MockScreen) CursorPosition(line, column int)     { s.log("CursorPosition", line, column) }
func (s *MockScreen) CursorToColumn(column int)           { s.log("CursorToColumn", column) }
func (s *MockScreen) CursorToLine(line int)               { s.log("CursorToLine", line) }
func (s *MockScreen) LowerLeft()                          { s.log("LowerLeft") }
func (s *MockScreen) Reset()                              { s.log("Reset") }
func (s *MockScreen) Index()                              { s.log("Index") }
func (s *MockScreen) ReverseIndex()                       { s.log("ReverseIndex") }
func (s *MockScreen) SetTabStop()                         { s.log("SetTabStop") }
func (s *MockScreen) ClearTabStop(how int)                { s.log("ClearTabStop", how) }
func (s *MockScreen) SaveCursor()                         { s.log("SaveCursor") }
func (s *MockScreen) RestoreCursor()                      { s.log("RestoreCursor") }
func (s *MockScreen) AlignmentDisplay()                   { s.log("AlignmentDisplay") }
func (s *MockScreen) InsertLines(count int)               { s.log("InsertLines", count) }
func (s *MockScreen) DeleteLines(count int)               { s.log("DeleteLines", count) }
func (s *MockScreen) InsertCharacters(count int)          { s.log("InsertCharacters", count) }
func (s *MockScreen) DeleteCharacters(count int)          { s.log("DeleteCharacters", count) }
func (s *MockScreen) EraseCharacters(count int)           { s.log("EraseCharacters", count) }
func (s *MockScreen) EraseInLine(how int)                 { s.log("EraseInLine", how) }
func (s *MockScreen) EraseInDisplay(how int)              { s.log("EraseInDisplay", how) }
func (s *MockScreen) ScrollUp(count int)                  { s.log("ScrollUp", count) }
func (s *MockScreen) ScrollDown(count int)                { s.log("ScrollDown", count) }
func (s *MockScreen) SetMode(modes []int, private bool)   { s.log("SetMode", modes, private) }
func (s *MockScreen) ResetMode(modes []int, private bool) { s.log("ResetMode", modes, private) }
func (s *MockScreen) SetMargins(top, bottom int)          { s.log("SetMargins", top, bottom) }
func (s *MockScreen) SelectGraphicRendition(params []int) { s.log("SelectGraphicRendition", params) }
func (s *MockScreen) RestoreCursorPosition()              { s.log("RestoreCursorPosition") }
func (s *MockScreen) GraphicCharset() bool                { return s.Graphic }
func (s *MockScreen) AtWrapMargin() bool                  { return s.AtWrap }

func (s *MockScreen) SelectCharset(slot byte, code byte) {
	s.log("SelectCharset", string(slot), string(code))
	if slot == introG0 {
		s.Graphic = code == '0'
	}
}
