// Package redirect implements the redirection descriptor and the parser that
// turns a token.Tokenizer's redirect/pipe tokens into typed descriptors
// (spec layer L2).
package redirect

import (
	"fmt"

	"github.com/aledsdavies/opal/internal/token"
)

// Mode is the open-flag intent for a File redirection.
type Mode int

const (
	Read Mode = iota
	Write
	Append
	WriteNoclob
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case Append:
		return "Append"
	case WriteNoclob:
		return "WriteNoclob"
	default:
		return "Unknown"
	}
}

// OpenFlags returns the canonical os.OpenFile flag combination for m, per the
// File-variant mapping table (spec §3.4): Write truncates and creates, Append
// creates and appends, WriteNoclob is an exclusive create, Read is read-only.
// Callers compose this with os.O_RDONLY/os.O_WRONLY etc. themselves to avoid
// this package importing "os" for a handful of integer constants it doesn't
// otherwise need.
func (m Mode) OpenFlags() (create, exclusive, truncate, appendFlag bool, writeAccess bool) {
	switch m {
	case Write:
		return true, false, true, false, true
	case Append:
		return true, false, false, true, true
	case WriteNoclob:
		return true, true, false, false, true
	case Read:
		return false, false, false, false, false
	default:
		return false, false, false, false, false
	}
}

// Kind tags the Redirection sum type (spec §3.4).
type Kind int

const (
	KindPipe Kind = iota
	KindFile
	KindDupFd
	KindClose
	KindBuffer
)

func (k Kind) String() string {
	switch k {
	case KindPipe:
		return "Pipe"
	case KindFile:
		return "File"
	case KindDupFd:
		return "DupFd"
	case KindClose:
		return "Close"
	case KindBuffer:
		return "Buffer"
	default:
		return "Unknown"
	}
}

// Redirection is the tagged sum over the fd-level effects a job or process
// can carry (spec §3.4). Exactly the fields relevant to Kind are meaningful;
// zero values elsewhere.
type Redirection struct {
	Kind Kind
	Fd   int

	// File variant.
	Path    string
	Mode    Mode
	IsInput bool

	// DupFd variant.
	OtherFd int

	// Buffer variant: an opaque handle managed by the caller (iochain owns
	// the concrete byte-accumulator type; this package only threads it
	// through).
	BufferHandle any
}

func (r Redirection) String() string {
	switch r.Kind {
	case KindPipe:
		return fmt.Sprintf("Pipe{fd=%d}", r.Fd)
	case KindFile:
		return fmt.Sprintf("File{fd=%d path=%q mode=%s input=%v}", r.Fd, r.Path, r.Mode, r.IsInput)
	case KindDupFd:
		return fmt.Sprintf("DupFd{fd=%d other=%d input=%v}", r.Fd, r.OtherFd, r.IsInput)
	case KindClose:
		return fmt.Sprintf("Close{fd=%d}", r.Fd)
	case KindBuffer:
		return fmt.Sprintf("Buffer{fd=%d input=%v}", r.Fd, r.IsInput)
	default:
		return "Redirection{?}"
	}
}

// Close builds a Close redirection.
func Close(fd int) Redirection { return Redirection{Kind: KindClose, Fd: fd} }

// File builds a File redirection for the given path and open mode.
func File(fd int, path string, mode Mode, isInput bool) Redirection {
	return Redirection{Kind: KindFile, Fd: fd, Path: path, Mode: mode, IsInput: isInput}
}

// DupFd builds a dup-fd redirection (`2>&1`-shaped).
func DupFd(fd, otherFd int, isInput bool) Redirection {
	return Redirection{Kind: KindDupFd, Fd: fd, OtherFd: otherFd, IsInput: isInput}
}

// Pipe builds a pipeline-edge redirection for fd.
func Pipe(fd int) Redirection { return Redirection{Kind: KindPipe, Fd: fd} }

// Buffer builds an in-memory capture redirection, handle opaque to this
// package (see iochain.NewCaptureBuffer).
func Buffer(fd int, handle any, isInput bool) Redirection {
	return Redirection{Kind: KindBuffer, Fd: fd, BufferHandle: handle, IsInput: isInput}
}

// FromToken consumes a redirect-shaped token.Token (RedirectOut/Append/In/
// Fd/Noclob) and the surface-syntax path or dup target that follows it,
// producing the File or DupFd descriptor (spec §4.3 "Redirection or fd-pipe
// recognizer" + §3.4's canonical mapping). The caller is responsible for
// reading that following token from the tokenizer (a bare word for a path, or
// a digit string / `-` for a dup target) — this function only classifies.
func FromToken(tok token.Token, target string) (Redirection, error) {
	switch tok.Kind {
	case token.RedirectOut:
		return File(tok.Fd, target, Write, false), nil
	case token.RedirectAppend:
		return File(tok.Fd, target, Append, false), nil
	case token.RedirectNoclob:
		return File(tok.Fd, target, WriteNoclob, false), nil
	case token.RedirectIn:
		return File(tok.Fd, target, Read, true), nil
	case token.RedirectFd:
		if target == "-" {
			return Close(tok.Fd), nil
		}
		other, err := parseFd(target)
		if err != nil {
			return Redirection{}, fmt.Errorf("redirect: %w", err)
		}
		isInput := tok.Fd == 0
		return DupFd(tok.Fd, other, isInput), nil
	case token.Pipe:
		return Pipe(tok.Fd), nil
	default:
		return Redirection{}, fmt.Errorf("redirect: token kind %s is not a redirection", tok.Kind)
	}
}

func parseFd(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty fd")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid fd %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
