//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package capture

import "golang.org/x/sys/unix"

func redirectFd(from, to int) error {
	return unix.Dup2(from, to)
}
