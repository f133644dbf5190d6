// Package iochain implements the I/O chain: the ordered, duplicable
// collection of redirection descriptors attached to a job or process (spec
// layer L3), grounded on fish's io_chain_t (original_source/io.cpp).
package iochain

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"syscall"

	"github.com/aledsdavies/opal/internal/redirect"
)

// Chain is an ordered sequence of redirections. It is not a map: Lookup
// returns the last entry with a given fd, since later entries shadow earlier
// ones (spec §3.5).
type Chain struct {
	entries []redirect.Redirection
	logger  *slog.Logger
}

// New returns an empty chain.
func New() *Chain {
	return &Chain{logger: slog.Default()}
}

// Append adds r to the end of the chain.
func (c *Chain) Append(r redirect.Redirection) {
	c.entries = append(c.entries, r)
}

// Prepend composes a parent chain onto this one: a clone of parent's entries
// is placed before this chain's own entries, so the child's own redirections
// still shadow the inherited ones on Lookup (spec §4.5 "Composition").
func (c *Chain) Prepend(parent *Chain) {
	if parent == nil {
		return
	}
	cloned := parent.Clone()
	c.logger.Debug("prepending parent chain", "parentLen", len(cloned.entries), "childLen", len(c.entries))
	c.entries = append(cloned.entries, c.entries...)
}

// Remove deletes the first entry equal to r, scanning from the end so that
// removing a shadowing entry exposes the next-latest one (spec §8 "I/O chain
// shadowing").
func (c *Chain) Remove(r redirect.Redirection) bool {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i] == r {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the last entry for fd, or the zero Redirection and false if
// none is present.
func (c *Chain) Lookup(fd int) (redirect.Redirection, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Fd == fd {
			return c.entries[i], true
		}
	}
	return redirect.Redirection{}, false
}

// Clear releases all local references. Buffer redirections release their
// reference-counted accumulator; the accumulator itself survives until its
// last reference drops (spec §4.5 "Destruction").
func (c *Chain) Clear() {
	for _, r := range c.entries {
		if r.Kind == redirect.KindBuffer {
			if buf, ok := r.BufferHandle.(*CaptureBuffer); ok {
				buf.release()
			}
		}
	}
	c.entries = nil
}

// Clone returns a chain with a copy of this chain's entries and shared
// references to any CaptureBuffer handles (ref-counted so a background job
// can keep a buffer alive after the block that created it returns).
func (c *Chain) Clone() *Chain {
	cloned := &Chain{entries: make([]redirect.Redirection, len(c.entries)), logger: c.logger}
	copy(cloned.entries, c.entries)
	for _, r := range cloned.entries {
		if r.Kind == redirect.KindBuffer {
			if buf, ok := r.BufferHandle.(*CaptureBuffer); ok {
				buf.retain()
			}
		}
	}
	return cloned
}

// Entries returns the chain's redirections in iteration order. The slice is
// owned by the caller; mutating it does not affect the chain.
func (c *Chain) Entries() []redirect.Redirection {
	out := make([]redirect.Redirection, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of entries currently in the chain.
func (c *Chain) Len() int { return len(c.entries) }

// CaptureBuffer is the in-memory byte accumulator behind a Buffer
// redirection (spec §3.5, §4.5). It is reference-counted: retain/release let
// a background job keep the buffer alive past the lifetime of the block
// statement that created it.
type CaptureBuffer struct {
	mu       sync.Mutex
	buf      []byte
	refs     int
	readFile *os.File
	readFd   int
	writer   *os.File
}

// NewCaptureBuffer creates a pipe, marks the read end non-blocking with
// syscall.SetNonblock (the way io_buffer_create in original_source/io.cpp
// does with fcntl(pipe_fd[0], F_SETFL, O_NONBLOCK)), and returns a Buffer
// redirection wrapping it for fd, plus the CaptureBuffer itself, whose
// WriteEnd is what the child process should inherit. On pipe creation or fcntl failure the partial state is torn
// down and an error is returned (spec §4.5 "Creation of a capture buffer").
func NewCaptureBuffer(fd int, isInput bool) (redirect.Redirection, *CaptureBuffer, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return redirect.Redirection{}, nil, err
	}
	readFd := int(r.Fd())
	if err := syscall.SetNonblock(readFd, true); err != nil {
		r.Close()
		w.Close()
		return redirect.Redirection{}, nil, err
	}
	cb := &CaptureBuffer{refs: 1, readFile: r, readFd: readFd, writer: w}
	return redirect.Buffer(fd, cb, isInput), cb, nil
}

func (cb *CaptureBuffer) retain() {
	cb.mu.Lock()
	cb.refs++
	cb.mu.Unlock()
}

func (cb *CaptureBuffer) release() {
	cb.mu.Lock()
	cb.refs--
	dead := cb.refs <= 0
	cb.mu.Unlock()
	if dead {
		cb.writer.Close()
		cb.readFile.Close()
	}
}

// WriteEnd returns the fd the child process should use as its stdout/stdin
// replacement.
func (cb *CaptureBuffer) WriteEnd() *os.File { return cb.writer }

// Drain pulls the read end until EOF after the child has exited. Closing the
// write end is the first statement, as io_buffer_read in
// original_source/io.cpp closes its copy of pipe_fd[1] before touching the
// read end: once the child's copy is gone too, the read reports EOF. The
// read end is non-blocking, so the loop never waits on the pipe: EAGAIN (no
// data pending) is treated as EOF, since the job is already known to have
// exited (spec §4.5 "Draining"); any other error is returned to the caller
// to log.
func (cb *CaptureBuffer) Drain() error {
	cb.writer.Close()
	chunk := make([]byte, 4096)
	for {
		n, err := syscall.Read(cb.readFd, chunk)
		if n > 0 {
			cb.mu.Lock()
			cb.buf = append(cb.buf, chunk[:n]...)
			cb.mu.Unlock()
		}
		if n == 0 && err == nil {
			return nil
		}
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) {
				return nil
			}
			return err
		}
	}
}

// Bytes returns the accumulated capture contents.
func (cb *CaptureBuffer) Bytes() []byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	out := make([]byte, len(cb.buf))
	copy(out, cb.buf)
	return out
}
