// Package console owns the captured stdout and stderr terminals of the
// running process. Open redirects the enabled streams; Close restores them.
package console

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rodjjo/diffusion-expert-sub000/internal/capture"
	"github.com/rodjjo/diffusion-expert-sub000/internal/config"
	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

// Channel names
const (
	StdoutName = "stdout"
	StderrName = "stderr"
)

// Channel is one captured stream: the terminal receiving its bytes and the
// capture feeding it. Capture is nil when redirection failed or the stream
// is disabled; the terminal then simply stays empty.
type Channel struct {
	Name     string
	Terminal *vtlog.Terminal
	Capture  *capture.Capture
}

// Captured reports whether bytes are currently flowing into the terminal.
func (ch *Channel) Captured() bool {
	return ch.Capture != nil && ch.Capture.Active()
}

// Console is the explicit context object holding both channels.
type Console struct {
	logger   *logging.Logger
	channels []*Channel
	stdout   *Channel
	stderr   *Channel
}

type stream struct {
	name    string
	file    *os.File
	enabled bool
}

// Open creates a terminal per stream and starts capturing the enabled
// ones. Capture failures are logged and never returned: a console without
// output is still usable.
func Open(ctx context.Context, cfg *config.Config, logger *logging.Logger) *Console {
	return open(ctx, cfg, logger, []stream{
		{StdoutName, os.Stdout, cfg.Capture.Stdout},
		{StderrName, os.Stderr, cfg.Capture.Stderr},
	})
}

func open(ctx context.Context, cfg *config.Config, logger *logging.Logger, streams []stream) *Console {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := &Console{logger: logger}

	opts := vtlog.Options{
		Geometry:        cfg.Terminal.Geometry(),
		ASCIIBoxDrawing: cfg.Terminal.ASCIIBoxDrawing,
	}
	for _, s := range streams {
		ch := &Channel{Name: s.name, Terminal: vtlog.New(opts)}
		if s.enabled {
			ch.Capture = c.start(ctx, cfg, s, ch.Terminal)
		}
		c.channels = append(c.channels, ch)
		switch s.name {
		case StdoutName:
			c.stdout = ch
		case StderrName:
			c.stderr = ch
		}
	}
	return c
}

func (c *Console) start(ctx context.Context, cfg *config.Config, s stream, term *vtlog.Terminal) *capture.Capture {
	log := c.logger.WithChannel(s.name)

	opts := []capture.Option{
		capture.WithLogger(log),
		capture.WithBufferSize(cfg.Capture.BufferSize),
	}
	if cfg.Capture.Tee {
		opts = append(opts, capture.WithTee())
	}

	cp := capture.New(s.file, term, opts...)
	if err := cp.Start(ctx); err != nil {
		if errors.Is(err, capture.ErrUnsupported) {
			log.Warn("stream capture unsupported, channel stays empty")
		} else {
			log.Error("stream capture failed, channel stays empty", "error", err)
		}
		return nil
	}
	return cp
}

// Stdout returns the stdout channel.
func (c *Console) Stdout() *Channel { return c.stdout }

// Stderr returns the stderr channel.
func (c *Console) Stderr() *Channel { return c.stderr }

// Channels returns every channel in open order.
func (c *Console) Channels() []*Channel { return c.channels }

// Close stops every capture, restoring the original descriptors. Terminals
// stay readable afterwards.
func (c *Console) Close() error {
	var errs []error
	for _, ch := range c.channels {
		if ch.Capture == nil {
			continue
		}
		if err := ch.Capture.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name, err))
		}
	}
	return errors.Join(errs...)
}
