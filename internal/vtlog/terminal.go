package vtlog

import "sync"

// Options configures a Terminal.
type Options struct {
	Geometry Geometry
	// ASCIIBoxDrawing stores box-drawing glyphs as '_', '|' and blanks even
	// outside the DEC graphic charset.
	ASCIIBoxDrawing bool
}

// guarded pairs a value with the mutex that protects it, so the value is
// only reachable with the lock held.
type guarded[T any] struct {
	mu sync.Mutex
	v  T
}

func (g *guarded[T]) Do(fn func(v *T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.v)
}

type state struct {
	screen  *Screen
	decoder *Decoder
	version uint64
}

// Terminal is a screen and its decoder behind one lock. A producer appends
// raw bytes while a consumer polls Version and exports frames.
type Terminal struct {
	st guarded[state]
}

// New returns an empty terminal.
func New(opts Options) *Terminal {
	screen := NewScreen(opts.Geometry)
	t := &Terminal{}
	t.st.v = state{screen: screen, decoder: NewDecoder(screen, opts.ASCIIBoxDrawing)}
	return t
}

// Append decodes data into the screen. The version moves once per non-empty
// call.
func (t *Terminal) Append(data []byte) {
	if len(data) == 0 {
		return
	}
	t.st.Do(func(st *state) {
		st.decoder.Feed(data)
		st.version++
	})
}

// Write implements io.Writer; it never fails.
func (t *Terminal) Write(p []byte) (int, error) {
	t.Append(p)
	return len(p), nil
}

// Version changes whenever the content may have changed.
func (t *Terminal) Version() uint64 {
	var v uint64
	t.st.Do(func(st *state) { v = st.version })
	return v
}

// ExportVisibleRows snapshots the visible window.
func (t *Terminal) ExportVisibleRows() Frame {
	return t.ExportRows(0)
}

// ExportRows snapshots a window scrolled back by scrollback rows.
func (t *Terminal) ExportRows(scrollback int) Frame {
	var f Frame
	t.st.Do(func(st *state) {
		f = st.screen.export(scrollback)
		f.Version = st.version
	})
	return f
}

// FlattenToText returns every stored byte, history and newlines included.
func (t *Terminal) FlattenToText() string {
	var text string
	t.st.Do(func(st *state) { text = st.screen.Text() })
	return text
}

func (t *Terminal) Stats() Stats {
	var stats Stats
	t.st.Do(func(st *state) {
		stats = st.screen.stats()
		stats.DroppedSequences = st.decoder.Dropped()
		stats.Version = st.version
	})
	return stats
}

func (t *Terminal) Modes() Modes {
	var m Modes
	t.st.Do(func(st *state) { m = st.screen.Modes() })
	return m
}

func (t *Terminal) Geometry() Geometry {
	var g Geometry
	t.st.Do(func(st *state) { g = st.screen.Geometry() })
	return g
}
