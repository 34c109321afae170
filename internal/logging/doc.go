// Package logging wraps log/slog with a JSON handler and persistent
// attributes (channel, capture ID) so console and capture events can be
// correlated after the fact. Logs go to a file by default because the
// process's own stderr may be redirected into a capture.
package logging
