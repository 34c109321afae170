//go:build linux

package capture

import "golang.org/x/sys/unix"

// redirectFd makes to refer to the same open file as from. Dup2 is missing
// on some linux architectures, Dup3 is not.
func redirectFd(from, to int) error {
	if from == to {
		return nil
	}
	return unix.Dup3(from, to, 0)
}
