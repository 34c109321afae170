package vtlog

import "unicode/utf8"

// Box drawing is stored as plain ASCII: horizontal strokes become '_',
// vertical strokes '|', corners and junctions a blank.
const (
	boxHorizontal = '_'
	boxVertical   = '|'
	boxOther      = ' '

	boxFirst = 0x2500
	boxLast  = 0x257f
)

// decSpecialGraphics maps the DEC special graphics letters that draw lines:
// j k l m are the corners, n the crossing, t u v w the tees, q the
// horizontal and x the vertical stroke. o p r s are scan lines.
var decSpecialGraphics = map[byte]byte{
	'j': boxOther,
	'k': boxOther,
	'l': boxOther,
	'm': boxOther,
	'n': boxOther,
	'o': boxHorizontal,
	'p': boxHorizontal,
	'q': boxHorizontal,
	'r': boxHorizontal,
	's': boxHorizontal,
	't': boxOther,
	'u': boxOther,
	'v': boxOther,
	'w': boxOther,
	'x': boxVertical,
}

var horizontalBox = map[rune]bool{
	'─': true, '━': true, '┄': true, '┅': true, '┈': true, '┉': true,
	'═': true, '╌': true, '╍': true, '╴': true, '╶': true, '╸': true,
	'╺': true, '╼': true, '╾': true,
}

var verticalBox = map[rune]bool{
	'│': true, '┃': true, '┆': true, '┇': true, '┊': true, '┋': true,
	'║': true, '╎': true, '╏': true, '╵': true, '╷': true, '╹': true,
	'╻': true, '╽': true, '╿': true,
}

// boxASCII returns the ASCII replacement for a line-drawing character and
// whether char is one.
func boxASCII(char []byte, graphic bool) (byte, bool) {
	if len(char) == 1 {
		if !graphic {
			return 0, false
		}
		b, ok := decSpecialGraphics[char[0]]
		return b, ok
	}
	r, _ := utf8.DecodeRune(char)
	if r < boxFirst || r > boxLast {
		return 0, false
	}
	switch {
	case horizontalBox[r]:
		return boxHorizontal, true
	case verticalBox[r]:
		return boxVertical, true
	}
	return boxOther, true
}
