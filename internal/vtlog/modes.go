package vtlog

// ANSI modes (CSI n h / CSI n l)
const (
	IRM = 4 // insert/replace
)

// Private DEC modes (CSI ? n h / CSI ? n l)
const (
	DECCKM         = 1 // application cursor keys
	DECOM          = 6
	DECAWM         = 7
	DECTCEM        = 25
	AltScreenOld   = 47
	AltScreen1047  = 1047
	AltScreen1049  = 1049
	BracketedPaste = 2004
)

// Modes is a read-only copy of the screen mode flags.
type Modes struct {
	Insert         bool
	Wraparound     bool
	Origin         bool
	AltScreen      bool
	CursorVisible  bool
	AppCursor      bool
	BracketedPaste bool
	GraphicCharset bool
}
