// Package intern implements the process-wide deduplicated string pool that
// the tokenizer and navigator build on: two interned handles compare equal
// iff their contents compare equal, and a handle is valid for the lifetime
// of the pool (in practice, the process).
package intern

import "sync"

// Handle is a stable reference to an interned string. The zero Handle is the
// handle for a nil/empty input.
type Handle struct {
	s *string
}

// String returns the interned text. Safe to call on the zero Handle (returns "").
func (h Handle) String() string {
	if h.s == nil {
		return ""
	}
	return *h.s
}

// IsZero reports whether h was produced by interning a nil input.
func (h Handle) IsZero() bool {
	return h.s == nil
}

// Pool is a concurrent, mutex-guarded string interner. The zero Pool is
// ready to use; Pool must not be copied after first use.
type Pool struct {
	mu      sync.Mutex
	strings map[string]*string
}

var empty = ""

// New returns a Pool pre-seeded with the empty string, so "" is never absent.
func New() *Pool {
	p := &Pool{strings: make(map[string]*string)}
	p.strings[""] = &empty
	return p
}

// Intern inserts s (copying it) if not already present and returns its
// handle. A nil slice returns the zero Handle; an empty non-nil slice
// interns to the pre-seeded empty string.
func (p *Pool) Intern(s []rune) Handle {
	if s == nil {
		return Handle{}
	}
	return p.intern(string(s), true)
}

// InternString is the string-argument form of Intern.
func (p *Pool) InternString(s string) Handle {
	return p.intern(s, true)
}

// InternBorrowed interns s without copying, on the caller's promise that the
// backing bytes outlive the pool (process lifetime in practice).
func (p *Pool) InternBorrowed(s string) Handle {
	return p.intern(s, false)
}

func (p *Pool) intern(s string, owned bool) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.strings[s]; ok {
		return Handle{s: existing}
	}

	var stored *string
	if owned {
		copied := s
		stored = &copied
	} else {
		stored = &s
	}
	p.strings[s] = stored
	return Handle{s: stored}
}

// Len reports the number of distinct strings currently interned.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strings)
}
