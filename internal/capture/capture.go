package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
)

var (
	// ErrUnsupported is returned by Start on platforms without dup2-style
	// descriptor redirection.
	ErrUnsupported = errors.New("capture: descriptor redirection is not supported on this platform")

	// ErrSetup wraps every failure while creating the pipe or redirecting
	// the descriptor. Nothing stays redirected after it is returned.
	ErrSetup = errors.New("capture: setup failed")

	// ErrStarted is returned when Start is called twice or after Stop.
	ErrStarted = errors.New("capture: already started")
)

const (
	defaultBufferSize = 4096
	// drainTimeout bounds how long Stop waits for the pipe to empty before
	// closing the read end. A child process still holding the write end
	// would otherwise keep the reader alive forever.
	drainTimeout = 200 * time.Millisecond
)

// Option configures a Capture.
type Option func(*Capture)

// WithTee also forwards captured bytes to the original destination.
func WithTee() Option {
	return func(c *Capture) { c.tee = true }
}

// WithBufferSize sets the reader's chunk size.
func WithBufferSize(n int) Option {
	return func(c *Capture) {
		if n > 0 {
			c.bufSize = n
		}
	}
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *logging.Logger) Option {
	return func(c *Capture) {
		if l != nil {
			c.logger = l
		}
	}
}

// Capture owns one redirected descriptor, the pipe behind it and the reader
// goroutine copying the pipe into the sink.
type Capture struct {
	id      string
	target  *os.File
	sink    io.Writer
	tee     bool
	bufSize int
	logger  *logging.Logger

	mu       sync.Mutex
	started  bool
	reader   *os.File
	original *os.File // duplicate of the target descriptor before redirection
	wg       conc.WaitGroup
	done     chan struct{}

	stopOnce   sync.Once
	stopErr    error
	terminated atomic.Bool
	bytes      atomic.Int64
}

// New returns a Capture that, once started, sends everything written to
// target into sink. sink is written from the reader goroutine only.
func New(target *os.File, sink io.Writer, opts ...Option) *Capture {
	c := &Capture{
		id:      uuid.NewString(),
		target:  target,
		sink:    sink,
		bufSize: defaultBufferSize,
		logger:  logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithCapture(c.id)
	return c
}

// ID identifies the capture in logs.
func (c *Capture) ID() string { return c.id }

// Bytes returns how many bytes have been copied into the sink.
func (c *Capture) Bytes() int64 { return c.bytes.Load() }

// Active reports whether the descriptor is currently redirected.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && !c.terminated.Load()
}

// Start redirects the target descriptor into a fresh pipe and launches the
// reader. Cancelling ctx stops the capture as if Stop had been called.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.terminated.Load() {
		return ErrStarted
	}

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("%w: pipe: %v", ErrSetup, err)
	}

	fd := int(c.target.Fd())
	saved, err := dupFd(fd)
	if err != nil {
		r.Close()
		w.Close()
		return fmt.Errorf("%w: duplicate fd %d: %w", ErrSetup, fd, err)
	}
	original := os.NewFile(uintptr(saved), c.target.Name())

	if err := redirectFd(int(w.Fd()), fd); err != nil {
		original.Close()
		r.Close()
		w.Close()
		return fmt.Errorf("%w: redirect fd %d: %w", ErrSetup, fd, err)
	}
	// The target descriptor is now the pipe's only write end.
	w.Close()

	c.reader = r
	c.original = original
	c.done = make(chan struct{})
	c.started = true
	c.wg.Go(c.readLoop)
	go c.watch(ctx)

	c.logger.Info("capture started", "fd", fd, "tee", c.tee)
	return nil
}

func (c *Capture) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		if err := c.Stop(); err != nil {
			c.logger.Warn("stop after cancel failed", "error", err)
		}
	case <-c.done:
	}
}

// readLoop forwards everything already in the pipe, even after Stop has
// begun; terminated only silences the error from the forced close.
func (c *Capture) readLoop() {
	defer close(c.done)

	buf := make([]byte, c.bufSize)
	for {
		n, err := c.reader.Read(buf)
		if n > 0 {
			c.bytes.Add(int64(n))
			if _, werr := c.sink.Write(buf[:n]); werr != nil {
				c.logger.Warn("sink write failed", "error", werr)
			}
			if c.tee {
				// Best effort: the original destination may be gone.
				_, _ = c.original.Write(buf[:n])
			}
		}
		if err != nil {
			if !c.terminated.Load() && !errors.Is(err, io.EOF) {
				c.logger.Warn("pipe read failed", "error", err)
			}
			return
		}
	}
}

// Stop restores the original descriptor, wakes and joins the reader and
// releases the pipe. It is safe to call more than once and before Start.
func (c *Capture) Stop() error {
	c.stopOnce.Do(func() { c.stopErr = c.stop() })
	return c.stopErr
}

func (c *Capture) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.terminated.Store(true)
	if !c.started {
		return nil
	}

	var errs []error
	if err := redirectFd(int(c.original.Fd()), int(c.target.Fd())); err != nil {
		errs = append(errs, fmt.Errorf("restore fd: %w", err))
	}

	select {
	case <-c.done:
	case <-time.After(drainTimeout):
	}
	if err := c.reader.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs = append(errs, fmt.Errorf("close pipe: %w", err))
	}
	if r := c.wg.WaitAndRecover(); r != nil {
		errs = append(errs, fmt.Errorf("capture reader: %w", r.AsError()))
	}
	if err := c.original.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close saved fd: %w", err))
	}

	c.logger.Info("capture stopped", "bytes", c.bytes.Load())
	return errors.Join(errs...)
}
