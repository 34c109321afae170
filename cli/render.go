// render.go - paint vtlog frames and stats onto a real terminal
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

const (
	sgrReset  = "\x1b[0m"
	clearHome = "\x1b[2J\x1b[H"
)

// isTerminal reports whether v is an *os.File connected to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// sgr returns the escape sequence selecting a run's colors. The default
// attribute maps to a plain reset so uncolored text stays uncolored.
func sgr(r vtlog.Run) string {
	if r.Attr == vtlog.DefaultAttr {
		return sgrReset
	}
	fg := 30 + int(r.Fg)
	if r.Bright {
		fg = 90 + int(r.Fg)
	}
	bg := 40 + int(r.Bg&7)
	if r.Bg&8 != 0 {
		bg = 100 + int(r.Bg&7)
	}
	return fmt.Sprintf("\x1b[0;%d;%dm", fg, bg)
}

// renderFrame writes every frame row, padded to the frame width. Rows end in
// CRLF so the output is also correct on a terminal in raw mode.
func renderFrame(w io.Writer, f vtlog.Frame, color bool) error {
	var sb strings.Builder
	for _, row := range f.Rows {
		width := 0
		for _, r := range row {
			if color {
				sb.WriteString(sgr(r))
			}
			sb.WriteString(r.Text)
			width += r.Width
		}
		if color {
			sb.WriteString(sgrReset)
		}
		if pad := f.Columns - width; pad > 0 && color {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString("\r\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// repaint clears the screen and paints f with its cursor.
func repaint(w io.Writer, f vtlog.Frame) error {
	if _, err := io.WriteString(w, clearHome); err != nil {
		return err
	}
	if err := renderFrame(w, f, true); err != nil {
		return err
	}
	cursor := "\x1b[?25l"
	if f.CursorVisible {
		col := 0
		if f.CursorRow < len(f.Rows) {
			col = cellColumn(f.Rows[f.CursorRow], f.CursorCol)
		}
		cursor = fmt.Sprintf("\x1b[%d;%dH\x1b[?25h", f.CursorRow+1, col+1)
	}
	_, err := io.WriteString(w, cursor)
	return err
}

// cellColumn converts a character column into a display cell column.
func cellColumn(row []vtlog.Run, chars int) int {
	cells := 0
	for _, r := range row {
		for _, ch := range r.Text {
			if chars == 0 {
				return cells
			}
			cells += runewidth.RuneWidth(ch)
			chars--
		}
	}
	return cells + chars
}

func printStats(w io.Writer, s vtlog.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BUFFER")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "Rows:              %s\n", humanize.Comma(int64(s.Rows)))
	fmt.Fprintf(w, "Used:              %s of %s\n", humanize.IBytes(uint64(s.UsedBytes)), humanize.IBytes(uint64(s.Capacity)))
	fmt.Fprintf(w, "Compactions:       %s\n", humanize.Comma(int64(s.Compactions)))
	fmt.Fprintf(w, "Dropped rows:      %s\n", humanize.Comma(s.DroppedRows))
	fmt.Fprintf(w, "Clipped bytes:     %s\n", humanize.Comma(s.ClippedBytes))
	fmt.Fprintf(w, "Dropped sequences: %s\n", humanize.Comma(int64(s.DroppedSequences)))
	fmt.Fprintf(w, "Version:           %d\n", s.Version)
}
