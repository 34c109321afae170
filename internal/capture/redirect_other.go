//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package capture

func dupFd(int) (int, error) { return -1, ErrUnsupported }

func redirectFd(int, int) error { return ErrUnsupported }
