package vtlog

import "unicode/utf8"

type decoderState int

const (
	stateGround decoderState = iota
	stateEscape
	// stateTitle swallows OSC strings (window titles) until BEL or ESC \.
	stateTitle
	stateTitleEscape
	stateTelnetCommand
	stateTelnetOption
	stateTelnetSub
	stateTelnetSubIAC
)

var replacementChar = []byte(string(utf8.RuneError))

type csiKey struct {
	lead  byte // private prefix or intermediate, 0 for none
	final byte
}

type csiFunc func(h Handler, p params)

var csiTable = map[csiKey]csiFunc{
	{0, 'A'}: func(h Handler, p params) { h.CursorUp(p.count(0)) },
	{0, 'B'}: func(h Handler, p params) { h.CursorDown(p.count(0)) },
	{0, 'C'}: func(h Handler, p params) { h.CursorForward(p.count(0)) },
	{0, 'D'}: func(h Handler, p params) { h.CursorBack(p.count(0)) },
	{0, 'E'}: func(h Handler, p params) { h.CursorNextLine(p.count(0)) },
	{0, 'F'}: func(h Handler, p params) { h.CursorPrevLine(p.count(0)) },
	{0, 'G'}: func(h Handler, p params) { h.CursorToColumn(p.At(0, 1)) },
	{0, '`'}: func(h Handler, p params) { h.CursorToColumn(p.At(0, 1)) },
	// Parameters are row;column, the order programs emit.
	{0, 'H'}: func(h Handler, p params) { h.CursorPosition(p.At(0, 1), p.At(1, 1)) },
	{0, 'f'}: func(h Handler, p params) { h.CursorPosition(p.At(0, 1), p.At(1, 1)) },
	{0, 'd'}: func(h Handler, p params) { h.CursorToLine(p.At(0, 1)) },
	{0, 'e'}: func(h Handler, p params) { h.CursorDown(p.count(0)) },
	{0, 'a'}: func(h Handler, p params) { h.CursorForward(p.count(0)) },

	{0, 'J'}:   func(h Handler, p params) { h.EraseInDisplay(p.At(0, 0)) },
	{0, 'K'}:   func(h Handler, p params) { h.EraseInLine(p.At(0, 0)) },
	{'?', 'J'}: func(h Handler, p params) { h.EraseInDisplay(p.At(0, 0)) },
	{'?', 'K'}: func(h Handler, p params) { h.EraseInLine(p.At(0, 0)) },
	{0, 'L'}:   func(h Handler, p params) { h.InsertLines(p.count(0)) },
	{0, 'M'}:   func(h Handler, p params) { h.DeleteLines(p.count(0)) },
	{0, '@'}:   func(h Handler, p params) { h.InsertCharacters(p.count(0)) },
	{0, 'P'}:   func(h Handler, p params) { h.DeleteCharacters(p.count(0)) },
	{0, 'X'}:   func(h Handler, p params) { h.EraseCharacters(p.count(0)) },
	{0, 'S'}:   func(h Handler, p params) { h.ScrollUp(p.count(0)) },
	{0, 'T'}:   func(h Handler, p params) { h.ScrollDown(p.count(0)) },

	{0, 'm'}:   func(h Handler, p params) { h.SelectGraphicRendition(p.values()) },
	{0, 'r'}:   func(h Handler, p params) { h.SetMargins(p.At(0, 0), p.At(1, 0)) },
	{0, 's'}:   func(h Handler, p params) { h.SaveCursor() },
	{0, 'u'}:   func(h Handler, p params) { h.RestoreCursorPosition() },
	{0, 'g'}:   func(h Handler, p params) { h.ClearTabStop(p.At(0, 0)) },
	{0, 'h'}:   func(h Handler, p params) { h.SetMode(p.values(), false) },
	{0, 'l'}:   func(h Handler, p params) { h.ResetMode(p.values(), false) },
	{'?', 'h'}: func(h Handler, p params) { h.SetMode(p.values(), true) },
	{'?', 'l'}: func(h Handler, p params) { h.ResetMode(p.values(), true) },
}

func noop(Handler) {}

var escTable = map[byte]func(Handler){
	'7':     Handler.SaveCursor,
	'8':     Handler.RestoreCursor,
	'D':     Handler.Index,
	'E':     Handler.NextLine,
	'M':     Handler.ReverseIndex,
	'H':     Handler.SetTabStop,
	'F':     Handler.LowerLeft,
	'c':     Handler.Reset,
	'=':     noop, // keypad modes
	'>':     noop,
	finalST: noop,
}

// Decoder is the byte-level state machine in front of a Handler. All state
// lives in the value, so a sequence split across Feed calls resumes where it
// stopped. Malformed input is dropped, never reported.
type Decoder struct {
	handler  Handler
	asciiBox bool

	state  decoderState
	seq    [maxSeqLength + 1]byte
	seqLen int

	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int

	// deferCR is set by a carriage return at the wrap margin. The next byte
	// decides between a plain return (LF follows) and a wrap.
	deferCR bool

	one     [1]byte
	dropped int
}

// NewDecoder returns a decoder in the ground state. asciiBox stores every
// box-drawing character as ASCII, not only under the graphic charset.
func NewDecoder(h Handler, asciiBox bool) *Decoder {
	return &Decoder{handler: h, asciiBox: asciiBox}
}

// Dropped returns how many sequences were discarded as unknown or
// malformed.
func (d *Decoder) Dropped() int { return d.dropped }

// Feed decodes data byte by byte.
func (d *Decoder) Feed(data []byte) {
	for _, b := range data {
		d.step(b)
	}
}

func (d *Decoder) step(b byte) {
	if d.deferCR {
		d.deferCR = false
		if b == LF {
			d.handler.CarriageReturn()
		} else {
			d.handler.NextLine()
		}
	}

	switch d.state {
	case stateGround:
		d.ground(b)
	case stateEscape:
		d.escape(b)
	case stateTitle:
		switch b {
		case BEL, CAN, SUB:
			d.state = stateGround
		case ESC:
			d.state = stateTitleEscape
		}
	case stateTitleEscape:
		if b == finalST {
			d.state = stateGround
			return
		}
		d.begin()
		d.escape(b)
	case stateTelnetCommand:
		switch b {
		case telnetSB:
			d.state = stateTelnetSub
			d.seqLen = 0
		case telnetWILL, telnetWONT, telnetDO, telnetDONT:
			d.state = stateTelnetOption
		default:
			// IAC IAC is a literal 0xff, which is not text.
			d.state = stateGround
		}
	case stateTelnetOption:
		d.state = stateGround
	case stateTelnetSub:
		if b == IAC {
			d.state = stateTelnetSubIAC
			return
		}
		d.seqLen++
		if d.seqLen >= maxSeqLength {
			d.dropped++
			d.state = stateGround
		}
	case stateTelnetSubIAC:
		switch b {
		case IAC:
			d.state = stateTelnetSub
		case telnetSE:
			d.state = stateGround
		default:
			d.dropped++
			d.state = stateGround
		}
	}
}

func (d *Decoder) ground(b byte) {
	if d.utf8Need > 0 {
		if isContinuation(b) {
			d.utf8Buf[d.utf8Len] = b
			d.utf8Len++
			d.utf8Need--
			if d.utf8Need == 0 {
				d.emit(d.utf8Buf[:d.utf8Len])
				d.utf8Len = 0
			}
			return
		}
		// Truncated sequence
		d.utf8Need, d.utf8Len = 0, 0
		d.handler.Put(replacementChar)
	}

	switch {
	case b == ESC:
		d.begin()
	case b == IAC:
		d.state = stateTelnetCommand
	case b < SP:
		d.execute(b)
	case b == DEL:
	case b < utf8.RuneSelf:
		d.one[0] = b
		d.emit(d.one[:])
	case b >= 0xc2 && b <= 0xdf:
		d.lead(b, 1)
	case b >= 0xe0 && b <= 0xef:
		d.lead(b, 2)
	case b >= 0xf0 && b <= 0xf4:
		d.lead(b, 3)
	default:
		// Stray continuation byte or a byte that never starts a sequence
		d.handler.Put(replacementChar)
	}
}

func (d *Decoder) lead(b byte, need int) {
	d.utf8Buf[0] = b
	d.utf8Len = 1
	d.utf8Need = need
}

// emit delivers one complete character, applying the box-drawing fallback.
func (d *Decoder) emit(char []byte) {
	if len(char) > 1 && !utf8.Valid(char) {
		char = replacementChar
	}
	if graphic := d.handler.GraphicCharset(); graphic || d.asciiBox {
		if b, ok := boxASCII(char, graphic); ok {
			d.one[0] = b
			char = d.one[:]
		}
	}
	d.handler.Put(char)
}

// execute runs a C0 control. NUL, BEL, SO, SI and the rest are ignored.
func (d *Decoder) execute(b byte) {
	switch b {
	case BS:
		d.handler.Backspace()
	case HT:
		d.handler.Tab()
	case LF, VT, FF:
		d.handler.LineFeed()
	case CR:
		if d.handler.AtWrapMargin() {
			d.deferCR = true
			return
		}
		d.handler.CarriageReturn()
	}
}

func (d *Decoder) begin() {
	d.state = stateEscape
	d.seqLen = 0
}

func (d *Decoder) abort() {
	d.dropped++
	d.state = stateGround
	d.seqLen = 0
}

func (d *Decoder) escape(b byte) {
	switch {
	case b == ESC:
		d.abort()
		d.begin()
		return
	case b == CAN || b == SUB:
		d.abort()
		return
	case b < SP:
		d.execute(b)
		return
	}

	d.seq[d.seqLen] = b
	d.seqLen++

	switch first := d.seq[0]; first {
	case introCSI:
		if d.seqLen > 1 && isFinal(b) {
			d.dispatchCSI()
			return
		}
	case introOSC:
		d.state = stateTitle
		return
	case introG0, introG1, introSharp, '%':
		if d.seqLen == 2 {
			d.dispatchPair()
			return
		}
	default:
		d.state = stateGround
		if fn, ok := escTable[first]; ok {
			fn(d.handler)
		} else {
			d.dropped++
		}
		return
	}

	if d.seqLen >= maxSeqLength {
		d.abort()
	}
}

func isFinal(b byte) bool { return b >= 0x40 && b <= 0x7e }

func (d *Decoder) dispatchCSI() {
	d.state = stateGround
	body, final := d.seq[1:d.seqLen-1], d.seq[d.seqLen-1]

	var lead byte
	if len(body) > 0 && body[0] >= '<' && body[0] <= privateCSI {
		lead, body = body[0], body[1:]
	}
	if n := len(body); n > 0 && body[n-1] >= SP && body[n-1] <= '/' {
		lead, body = body[n-1], body[:n-1]
	}

	p, ok := parseParams(body)
	fn, known := csiTable[csiKey{lead, final}]
	if !ok || !known {
		d.dropped++
		return
	}
	fn(d.handler, p)
}

// dispatchPair handles the two-byte sequences ESC ( c, ESC ) c, ESC # c and
// ESC % c.
func (d *Decoder) dispatchPair() {
	d.state = stateGround
	first, code := d.seq[0], d.seq[1]
	switch {
	case first == introG0 || first == introG1:
		d.handler.SelectCharset(first, code)
	case first == introSharp && code == '8':
		d.handler.AlignmentDisplay()
	default:
		d.dropped++
	}
}
