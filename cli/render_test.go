package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

func frameOf(t *testing.T, cols int, input string) vtlog.Frame {
	t.Helper()
	g := vtlog.DefaultGeometry()
	g.Columns, g.Rows = cols, 3
	term := vtlog.New(vtlog.Options{Geometry: g})
	term.Append([]byte(input))
	return term.ExportVisibleRows()
}

func TestSGR(t *testing.T) {
	testCases := []struct {
		name string
		attr vtlog.Attr
		want string
	}{
		{"Default", vtlog.DefaultAttr, "\x1b[0m"},
		{"Red on black", vtlog.MakeAttr(vtlog.Red, vtlog.Black), "\x1b[0;31;40m"},
		{"Bright green", vtlog.MakeAttr(vtlog.Green|8, vtlog.Black), "\x1b[0;92;40m"},
		{"Bright background", vtlog.MakeAttr(vtlog.White, vtlog.Blue|8), "\x1b[0;37;104m"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.attr
			run := vtlog.Run{Attr: a, Fg: a.Fg() &^ 8, Bg: a.Bg(), Bright: a.Bright()}
			assert.Equal(t, tc.want, sgr(run))
		})
	}
}

func TestRenderFrame(t *testing.T) {
	f := frameOf(t, 10, "ab\x1b[31mc\x1b[0m\r\n漢")

	var plain bytes.Buffer
	require.NoError(t, renderFrame(&plain, f, false))
	assert.Equal(t, "abc\r\n漢\r\n", plain.String())

	var colored bytes.Buffer
	require.NoError(t, renderFrame(&colored, f, true))
	assert.Equal(t,
		"\x1b[0mab\x1b[0;31;40mc\x1b[0m       \r\n"+
			"\x1b[0m漢\x1b[0m        \r\n",
		colored.String())
}

func TestRepaintCursor(t *testing.T) {
	f := frameOf(t, 10, "漢字ab\x1b[2D")

	var buf bytes.Buffer
	require.NoError(t, repaint(&buf, f))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(clearHome)))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\x1b[1;5H\x1b[?25h")))

	hidden := frameOf(t, 10, "x\x1b[?25l")
	buf.Reset()
	require.NoError(t, repaint(&buf, hidden))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\x1b[?25l")))
}

func TestCellColumn(t *testing.T) {
	row := []vtlog.Run{{Text: "a漢"}, {Text: "b"}}
	assert.Equal(t, 0, cellColumn(row, 0))
	assert.Equal(t, 1, cellColumn(row, 1))
	assert.Equal(t, 3, cellColumn(row, 2))
	assert.Equal(t, 4, cellColumn(row, 3))
	assert.Equal(t, 6, cellColumn(row, 5))
}
