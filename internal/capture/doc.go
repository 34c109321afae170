// Package capture redirects a process-level file descriptor (stdout, stderr)
// into an OS pipe and copies everything written to it into a sink from a
// dedicated reader goroutine. Stopping restores the original descriptor.
package capture
