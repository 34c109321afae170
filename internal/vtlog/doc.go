// Package vtlog is a small VT100/ANSI terminal model for captured process
// output. Bytes are decoded by a Decoder into a Screen that stores rows as
// variable-length ranges of one fixed arena, growing like a log until a
// program switches to the alternate screen. When the arena fills, the oldest
// rows are compacted away.
//
// Terminal wraps both behind a mutex: one goroutine appends, another polls
// Version and exports the visible rows or the flattened text.
package vtlog
