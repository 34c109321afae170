package vtlog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

func decode(input string) *vtlog.MockScreen {
	screen := vtlog.NewMockScreen()
	vtlog.NewDecoder(screen, false).Feed([]byte(input))
	return screen
}

func TestDecoderDispatch(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		calls []string
	}{
		{"Plain text", "hi", []string{"Put[h]", "Put[i]"}},
		{"Cursor home", "\x1b[H", []string{"CursorPosition[1 1]"}},
		{"Cursor position", "\x1b[5;10H", []string{"CursorPosition[5 10]"}},
		{"Omitted row", "\x1b[;7f", []string{"CursorPosition[1 7]"}},
		{"Cursor up default", "\x1b[A", []string{"CursorUp[1]"}},
		{"Cursor up zero", "\x1b[0A", []string{"CursorUp[1]"}},
		{"Clamped count", "\x1b[99999B", []string{"CursorDown[9999]"}},
		{"Next line", "\x1b[2E", []string{"CursorNextLine[2]"}},
		{"Previous line", "\x1b[F", []string{"CursorPrevLine[1]"}},
		{"Column absolute", "\x1b[12G", []string{"CursorToColumn[12]"}},
		{"Line absolute", "\x1b[3d", []string{"CursorToLine[3]"}},
		{"Erase display", "\x1b[2J", []string{"EraseInDisplay[2]"}},
		{"Erase line default", "\x1b[K", []string{"EraseInLine[0]"}},
		{"Insert lines", "\x1b[3L", []string{"InsertLines[3]"}},
		{"Delete characters", "\x1b[P", []string{"DeleteCharacters[1]"}},
		{"Insert characters", "\x1b[4@", []string{"InsertCharacters[4]"}},
		{"Erase characters", "\x1b[2X", []string{"EraseCharacters[2]"}},
		{"Scroll up", "\x1b[S", []string{"ScrollUp[1]"}},
		{"Scroll down", "\x1b[2T", []string{"ScrollDown[2]"}},
		{"Margins", "\x1b[2;20r", []string{"SetMargins[2 20]"}},
		{"Reset margins", "\x1b[r", []string{"SetMargins[0 0]"}},
		{"SGR", "\x1b[1;31m", []string{"SelectGraphicRendition[[1 31]]"}},
		{"SGR reset", "\x1b[m", []string{"SelectGraphicRendition[[]]"}},
		{"SGR omitted field", "\x1b[;4m", []string{"SelectGraphicRendition[[0 4]]"}},
		{"Save position", "\x1b[s", []string{"SaveCursor[]"}},
		{"Restore position", "\x1b[u", []string{"RestoreCursorPosition[]"}},
		{"Alternate screen", "\x1b[?1049h", []string{"SetMode[[1049] true]"}},
		{"Hide cursor", "\x1b[?25l", []string{"ResetMode[[25] true]"}},
		{"Insert mode", "\x1b[4h", []string{"SetMode[[4] false]"}},
		{"Tab clear", "\x1b[3g", []string{"ClearTabStop[3]"}},
		{"Save and restore", "\x1b7\x1b8", []string{"SaveCursor[]", "RestoreCursor[]"}},
		{"Index", "\x1bD\x1bM\x1bE", []string{"Index[]", "ReverseIndex[]", "NextLine[]"}},
		{"Tab stop", "\x1bH", []string{"SetTabStop[]"}},
		{"Lower left", "\x1bF", []string{"LowerLeft[]"}},
		{"Reset", "\x1bc", []string{"Reset[]"}},
		{"Alignment", "\x1b#8", []string{"AlignmentDisplay[]"}},
		{"Keypad mode ignored", "\x1b=\x1b>x", []string{"Put[x]"}},
		{"Controls", "a\bb\tc", []string{"Put[a]", "Backspace[]", "Put[b]", "Tab[]", "Put[c]"}},
		{"Line feeds", "\n\v\f", []string{"LineFeed[]", "LineFeed[]", "LineFeed[]"}},
		{"Ignored C0", "\x00\x07\x0e\x0fz", []string{"Put[z]"}},
		{"Delete ignored", "\x7fz", []string{"Put[z]"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.calls, decode(tc.input).Calls)
		})
	}
}

func TestDecoderSplitSequences(t *testing.T) {
	input := "\x1b[31mé\x1b]0;title\x07\x1b[2;3H"
	want := decode(input).Calls

	for i := 1; i < len(input); i++ {
		screen := vtlog.NewMockScreen()
		decoder := vtlog.NewDecoder(screen, false)
		decoder.Feed([]byte(input[:i]))
		decoder.Feed([]byte(input[i:]))
		assert.Equal(t, want, screen.Calls, "split at %d", i)
	}
}

func TestDecoderUTF8(t *testing.T) {
	t.Run("Multibyte", func(t *testing.T) {
		assert.Equal(t, []string{"Put[é]", "Put[✓]", "Put[😀]"}, decode("é✓😀").Calls)
	})

	t.Run("Stray continuation", func(t *testing.T) {
		assert.Equal(t, []string{"Put[�]", "Put[a]"}, decode("\x80a").Calls)
	})

	t.Run("Truncated sequence", func(t *testing.T) {
		assert.Equal(t, []string{"Put[�]", "Put[A]"}, decode("\xc3A").Calls)
	})

	t.Run("Overlong encoding", func(t *testing.T) {
		assert.Equal(t, []string{"Put[�]"}, decode("\xe0\x80\x80").Calls)
	})

	t.Run("Invalid lead", func(t *testing.T) {
		assert.Equal(t, []string{"Put[�]", "Put[�]"}, decode("\xc0\xf8").Calls)
	})
}

func TestDecoderStringsSwallowed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"Title with BEL", "\x1b]0;my title\x07ok"},
		{"Title with ST", "\x1b]2;other\x1b\\ok"},
		{"Cancelled", "\x1b]0;abc\x18ok"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{"Put[o]", "Put[k]"}, decode(tc.input).Calls)
		})
	}

	t.Run("ESC inside title starts a sequence", func(t *testing.T) {
		assert.Equal(t, []string{"CursorUp[1]"}, decode("\x1b]0;abc\x1b[A").Calls)
	})
}

func TestDecoderTelnet(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"Option", "\xff\xfb\x01A"},
		{"Two byte command", "\xff\xf1A"},
		{"Escaped IAC", "\xff\xffA"},
		{"Subnegotiation", "\xff\xfa\x18\x00xterm\xff\xf0A"},
		{"Escaped IAC in subnegotiation", "\xff\xfa\x18\xff\xff\x00\xff\xf0A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{"Put[A]"}, decode(tc.input).Calls)
		})
	}
}

func TestDecoderMalformed(t *testing.T) {
	t.Run("Sequence cap", func(t *testing.T) {
		screen := vtlog.NewMockScreen()
		decoder := vtlog.NewDecoder(screen, false)
		decoder.Feed([]byte("\x1b[" + strings.Repeat("1", 40) + "ok"))

		want := make([]string, 0, 12)
		for i := 0; i < 10; i++ {
			want = append(want, "Put[1]")
		}
		want = append(want, "Put[o]", "Put[k]")
		assert.Equal(t, want, screen.Calls)
		assert.Equal(t, 1, decoder.Dropped())
	})

	t.Run("Unknown final", func(t *testing.T) {
		screen := vtlog.NewMockScreen()
		decoder := vtlog.NewDecoder(screen, false)
		decoder.Feed([]byte("\x1b[5zA\x1b[>1;2cB\x1b[2 qC"))
		assert.Equal(t, []string{"Put[A]", "Put[B]", "Put[C]"}, screen.Calls)
		assert.Equal(t, 3, decoder.Dropped())
	})

	t.Run("String introducers are dropped", func(t *testing.T) {
		for _, intro := range []string{"P", "X", "^", "_"} {
			screen := vtlog.NewMockScreen()
			decoder := vtlog.NewDecoder(screen, false)
			decoder.Feed([]byte("\x1b" + intro + "hello"))
			assert.Equal(t, []string{"Put[h]", "Put[e]", "Put[l]", "Put[l]", "Put[o]"}, screen.Calls, intro)
			assert.Equal(t, 1, decoder.Dropped(), intro)
		}
	})

	t.Run("Garbage parameters", func(t *testing.T) {
		assert.Equal(t, []string{"Put[x]"}, decode("\x1b[1:2mx").Calls)
	})

	t.Run("CAN aborts", func(t *testing.T) {
		assert.Equal(t, []string{"Put[A]"}, decode("\x1b[31\x18A").Calls)
	})

	t.Run("ESC restarts", func(t *testing.T) {
		assert.Equal(t, []string{"CursorDown[2]"}, decode("\x1b[3\x1b[2B").Calls)
	})

	t.Run("Controls inside CSI", func(t *testing.T) {
		assert.Equal(t, []string{"Backspace[]", "CursorForward[2]"}, decode("\x1b[2\bC").Calls)
	})
}

func TestDecoderWrapMarginReturn(t *testing.T) {
	t.Run("Return then line feed", func(t *testing.T) {
		screen := vtlog.NewMockScreen()
		screen.AtWrap = true
		vtlog.NewDecoder(screen, false).Feed([]byte("\r\n"))
		assert.Equal(t, []string{"CarriageReturn[]", "LineFeed[]"}, screen.Calls)
	})

	t.Run("Return then text", func(t *testing.T) {
		screen := vtlog.NewMockScreen()
		screen.AtWrap = true
		decoder := vtlog.NewDecoder(screen, false)
		decoder.Feed([]byte("\r"))
		assert.Empty(t, screen.Calls)

		screen.AtWrap = false
		decoder.Feed([]byte("x"))
		assert.Equal(t, []string{"NextLine[]", "Put[x]"}, screen.Calls)
	})

	t.Run("Return inside the grid", func(t *testing.T) {
		assert.Equal(t, []string{"CarriageReturn[]", "Put[x]"}, decode("\rx").Calls)
	})
}

func TestDecoderBoxDrawing(t *testing.T) {
	t.Run("Graphic charset", func(t *testing.T) {
		calls := decode("\x1b(0lqqkx\x1b(Bq").Calls
		assert.Equal(t, []string{
			"SelectCharset[( 0]",
			"Put[ ]", "Put[_]", "Put[_]", "Put[ ]", "Put[|]",
			"SelectCharset[( B]",
			"Put[q]",
		}, calls)
	})

	t.Run("UTF-8 glyphs under graphic charset", func(t *testing.T) {
		assert.Equal(t, []string{"SelectCharset[( 0]", "Put[_]", "Put[|]", "Put[ ]"}, decode("\x1b(0─│┌").Calls)
	})

	t.Run("UTF-8 glyphs pass through", func(t *testing.T) {
		assert.Equal(t, []string{"Put[─]"}, decode("─").Calls)
	})

	t.Run("Forced ASCII", func(t *testing.T) {
		screen := vtlog.NewMockScreen()
		vtlog.NewDecoder(screen, true).Feed([]byte("═║┼q"))
		assert.Equal(t, []string{"Put[_]", "Put[|]", "Put[ ]", "Put[q]"}, screen.Calls)
	})
}
