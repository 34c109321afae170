//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package capture

import "golang.org/x/sys/unix"

// dupFd duplicates fd with close-on-exec set, so child processes spawned
// while capturing do not inherit the saved descriptor.
func dupFd(fd int) (int, error) {
	saved, err := unix.Dup(fd)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(saved)
	return saved, nil
}
