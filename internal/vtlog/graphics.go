package vtlog

// Attr packs a 4-bit foreground (low nibble) and a 4-bit background (high
// nibble). Bit 3 of each nibble is the bright/intensity bit.
type Attr uint8

// DefaultAttr is white on black.
const DefaultAttr Attr = 7

// Basic ANSI palette indexes.
const (
	Black = iota
	Red
	Green
	Brown
	Blue
	Magenta
	Cyan
	White
)

const (
	brightBit    = 8
	defaultFg    = White
	defaultBg    = Black
	fgExtended   = 38
	bgExtended   = 48
	extended256  = 5
	extendedRGB  = 2
	paletteCount = 16
)

// MakeAttr builds an attribute from palette indexes in [0, 15].
func MakeAttr(fg, bg uint8) Attr {
	return Attr(fg&0x0f | (bg&0x0f)<<4)
}

// Fg returns the foreground palette index.
func (a Attr) Fg() uint8 { return uint8(a) & 0x0f }

// Bg returns the background palette index.
func (a Attr) Bg() uint8 { return uint8(a) >> 4 }

// Bright reports whether the foreground carries the intensity bit.
func (a Attr) Bright() bool { return a.Fg()&brightBit != 0 }

// Pen is the SGR state that produces the attribute written with each cell.
type Pen struct {
	Fg      uint8
	Bg      uint8
	Bold    bool
	Reverse bool
}

// DefaultPen returns the pen after SGR 0.
func DefaultPen() Pen {
	return Pen{Fg: defaultFg, Bg: defaultBg}
}

// Attr resolves the pen to a packed attribute.
func (p Pen) Attr() Attr {
	fg, bg := p.Fg, p.Bg
	if p.Bold {
		fg |= brightBit
	}
	if p.Reverse {
		fg, bg = bg, fg
	}
	return MakeAttr(fg, bg)
}

// applySGR walks the parameter list the way a VT100 does: every code applies
// in order, and 38/48 consume their own arguments.
func (p *Pen) applySGR(params []int) {
	if len(params) == 0 {
		*p = DefaultPen()
		return
	}

	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			*p = DefaultPen()
		case code == 1:
			p.Bold = true
		case code == 7:
			p.Reverse = true
		case code == 22:
			p.Bold = false
		case code == 27:
			p.Reverse = false
		case code >= 30 && code <= 37:
			p.Fg = uint8(code - 30)
		case code == 39:
			p.Fg = defaultFg
		case code >= 40 && code <= 47:
			p.Bg = uint8(code - 40)
		case code == 49:
			p.Bg = defaultBg
		case code >= 90 && code <= 97:
			p.Fg = uint8(code-90) | brightBit
		case code >= 100 && code <= 107:
			p.Bg = uint8(code-100) | brightBit
		case code == fgExtended || code == bgExtended:
			idx, used := extendedColor(params[i+1:])
			i += used
			if idx < 0 {
				continue
			}
			if code == fgExtended {
				p.Fg = uint8(idx)
			} else {
				p.Bg = uint8(idx)
			}
		}
	}
}

// extendedColor decodes the arguments after 38/48 and returns the nearest
// 16-color palette index (or -1) and the number of arguments consumed.
func extendedColor(args []int) (int, int) {
	if len(args) == 0 {
		return -1, 0
	}
	switch args[0] {
	case extended256:
		if len(args) < 2 {
			return -1, len(args)
		}
		return color256To16(args[1]), 2
	case extendedRGB:
		if len(args) < 4 {
			return -1, len(args)
		}
		return rgbTo16(args[1], args[2], args[3]), 4
	}
	return -1, 1
}

func color256To16(n int) int {
	switch {
	case n < 0 || n > 255:
		return -1
	case n < paletteCount:
		return n
	case n >= 232:
		level := (n - 232) * 10
		return grayTo16(level)
	}
	n -= 16
	r, g, b := n/36, (n/6)%6, n%6
	scale := func(v int) int {
		if v == 0 {
			return 0
		}
		return 55 + v*40
	}
	return rgbTo16(scale(r), scale(g), scale(b))
}

func grayTo16(level int) int {
	switch {
	case level < 60:
		return Black
	case level < 130:
		return Black | brightBit
	case level < 200:
		return White
	}
	return White | brightBit
}

func rgbTo16(r, g, b int) int {
	hi := r
	if g > hi {
		hi = g
	}
	if b > hi {
		hi = b
	}
	if hi < 60 {
		return Black
	}
	idx := 0
	threshold := hi / 2
	if r > threshold {
		idx |= 1
	}
	if g > threshold {
		idx |= 2
	}
	if b > threshold {
		idx |= 4
	}
	if idx == White && hi < 200 {
		return grayTo16(hi)
	}
	if hi > 200 {
		idx |= brightBit
	}
	return idx
}
