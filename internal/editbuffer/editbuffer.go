// Package editbuffer implements the command-line edit buffer service
// consumed by the commandline builtin: a (text, cursor) pair with an
// override slot for completion's hypothetical-buffer queries (spec layer
// L4), grounded on fish's reader_get_buffer/reader_set_buffer/
// reader_get_cursor_pos/reader_search_mode calls (original_source/reader.h's
// prototypes, exercised in original_source/builtin_commandline.cpp).
package editbuffer

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/opal/internal/invariant"
	"github.com/aledsdavies/opal/internal/navigator"
	"github.com/aledsdavies/opal/internal/token"
)

// Region selects which extent a read or write operates over (spec §4.6).
type Region int

const (
	RegionBuffer Region = iota
	RegionJob
	RegionProcess
	RegionToken
)

// WriteMode selects how a write combines with the existing region contents
// (spec §3.6/§4.6).
type WriteMode int

const (
	WriteReplace WriteMode = iota
	WriteInsert
	WriteAppend
)

// ReadOptions controls how a read materializes a region's text (spec §4.6).
type ReadOptions struct {
	CutAtCursor bool
	Tokenize    bool
}

type override struct {
	text   string
	cursor int
}

// Service mediates read/write access to the interactive buffer and cursor.
// It is single-threaded (cooperative): the spec requires at most one writer
// at a time, and this type performs no internal locking because the caller
// is expected to run it only on the main thread (spec §3.6, §5).
type Service struct {
	text         string
	cursor       int
	isSearchMode bool
	overrides    []override
	functionQ    []string
}

// New creates an edit buffer service over an empty buffer.
func New() *Service {
	return &Service{}
}

// SetBuffer installs text as the live buffer and clamps cursor into
// [0, len(text)].
func (s *Service) SetBuffer(text string, cursor int) {
	s.text = text
	s.cursor = clamp(cursor, 0, len(text))
}

// GetBuffer returns the buffer currently visible to callers: the top
// override if one is pushed, else the live buffer.
func (s *Service) GetBuffer() (text string, cursor int) {
	if len(s.overrides) > 0 {
		top := s.overrides[len(s.overrides)-1]
		return top.text, top.cursor
	}
	return s.text, s.cursor
}

// GetCursor returns the cursor of whichever buffer GetBuffer currently
// exposes.
func (s *Service) GetCursor() int {
	_, cursor := s.GetBuffer()
	return cursor
}

// IsSearchMode reports whether the reader is currently in history-search
// mode.
func (s *Service) IsSearchMode() bool { return s.isSearchMode }

// SetSearchMode sets the search-mode flag (driven by the reader collaborator,
// not by this package).
func (s *Service) SetSearchMode(v bool) { s.isSearchMode = v }

// PushOverride installs a borrowed (text, cursor-at-end) buffer, returned in
// place of the live buffer until PopOverride. Used during completion
// generation so `complete -C '…'` can query a hypothetical buffer (spec
// §3.6, §9 "scoped-guard API").
func (s *Service) PushOverride(text string) {
	s.overrides = append(s.overrides, override{text: text, cursor: len(text)})
}

// PopOverride removes the most recently pushed override. A pop with no
// matching push is a no-op, consistent with this being a best-effort
// scoped-guard rather than a strict stack-balance contract enforced by panic.
func (s *Service) PopOverride() {
	if len(s.overrides) == 0 {
		return
	}
	s.overrides = s.overrides[:len(s.overrides)-1]
}

// regionExtent resolves which [begin, end) extent the given Region selects, over
// the buffer/cursor GetBuffer currently exposes.
func (s *Service) regionExtent(r Region) navigator.Extent {
	text, cursor := s.GetBuffer()
	switch r {
	case RegionBuffer:
		return navigator.Extent{Begin: 0, End: len(text)}
	case RegionJob:
		return navigator.JobExtent(text, cursor)
	case RegionProcess:
		return navigator.ProcessExtent(text, cursor)
	case RegionToken:
		cur, _, _ := navigator.TokenExtent(text, cursor)
		return cur
	default:
		invariant.Precondition(false, "unknown region %d", r)
		return navigator.Extent{}
	}
}

// Read materializes the text of region r, per opts (spec §4.6).
func (s *Service) Read(r Region, opts ReadOptions) string {
	text, cursor := s.GetBuffer()
	ext := s.regionExtent(r)
	begin, end := ext.Begin, ext.End
	if opts.CutAtCursor && cursor >= begin && cursor < end {
		end = cursor
	}
	region := text[begin:end]
	if !opts.Tokenize {
		return region
	}
	var lines []string
	tz := token.New(region, token.Flags{AcceptUnfinished: true})
	for tz.Next() {
		tok := tz.Current()
		if tok.Kind == token.String {
			lines = append(lines, token.Unescape(tok.Text))
		}
		if !tz.HasNext() {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Write applies insert to region r under mode, per the write semantics in
// spec §3.6: replace sets the new cursor to begin+len(insert); append leaves
// the cursor unchanged; insert advances the cursor by len(insert) when the
// cursor was within the region.
func (s *Service) Write(r Region, mode WriteMode, insert string) error {
	if len(s.overrides) > 0 {
		return fmt.Errorf("editbuffer: cannot write while an override is active")
	}
	ext := s.regionExtent(r)
	begin, end := ext.Begin, ext.End

	switch mode {
	case WriteReplace:
		s.text = s.text[:begin] + insert + s.text[end:]
		s.cursor = begin + len(insert)
	case WriteAppend:
		s.text = s.text[:end] + insert + s.text[end:]
		// cursor unchanged, per spec.
	case WriteInsert:
		c := s.cursor
		if c < begin {
			c = begin
		}
		if c > end {
			c = end
		}
		s.text = s.text[:c] + insert + s.text[c:]
		s.cursor = c + len(insert)
	default:
		return fmt.Errorf("editbuffer: unknown write mode %d", mode)
	}
	return nil
}

// PushFunction enqueues name onto the pending input-function queue: the
// `commandline --function` builtin's effect (spec §6.1 "Positional arguments
// are input-function names; push each onto the key queue"). The key reader
// that actually dispatches queued input functions is a collaborator outside
// the core (spec §1); this queue is the observable hand-off point to it.
func (s *Service) PushFunction(name string) {
	s.functionQ = append(s.functionQ, name)
}

// DrainFunctions returns the pending input-function queue in enqueue order
// and clears it.
func (s *Service) DrainFunctions() []string {
	out := s.functionQ
	s.functionQ = nil
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
