// Package navigator implements the structural navigator: given a buffer and
// a cursor, it locates the enclosing command-substitution, job, process, and
// token extents (spec layer L2), grounded on fish's parse_util_cmdsubst_extent/
// job_or_process_extent/parse_util_token_extent family
// (original_source/parse_util.c) and the L1 tokenizer this module builds on.
package navigator

import (
	"sync"

	"github.com/aledsdavies/opal/internal/token"
)

// Extent is a half-open byte range [Begin, End) in the edit buffer.
type Extent struct {
	Begin int
	End   int
}

// Empty reports whether the extent has zero length.
func (e Extent) Empty() bool { return e.Begin == e.End }

// SubstitutionExtent returns the innermost balanced `( … )` whose byte range
// contains cursor, or the whole buffer if none. It mirrors the tokenizer's
// quote + paren rules but only tracks paren depth (spec §4.4).
func SubstitutionExtent(buffer string, cursor int) Extent {
	type frame struct{ open int }
	var stack []frame
	best := Extent{0, len(buffer)}
	found := false

	i := 0
	for i < len(buffer) {
		switch c := buffer[i]; c {
		case '\\':
			i++
			if i < len(buffer) {
				i++
			}
			continue
		case '\'', '"':
			closeAt := findClosingQuote(buffer, i+1, c)
			if closeAt < 0 {
				i = len(buffer)
				continue
			}
			i = closeAt + 1
			continue
		case '(':
			stack = append(stack, frame{open: i})
			i++
			continue
		case ')':
			if len(stack) > 0 {
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				// Enclosing frames close innermost-first, so the first one
				// around the cursor is the innermost.
				if !found && f.open < cursor && cursor <= i {
					best = Extent{f.open + 1, i}
					found = true
				}
			}
			i++
			continue
		default:
			i++
		}
	}
	return best
}

// findClosingQuote scans s[from:] for the next occurrence of quote not
// preceded by an unescaped backslash, returning its index or -1.
func findClosingQuote(s string, from int, quote byte) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// relative translates an absolute buffer position into one relative to sub,
// clamping into [0, len(sub text)].
func relative(sub Extent, abs int) int {
	r := abs - sub.Begin
	if r < 0 {
		return 0
	}
	if r > sub.End-sub.Begin {
		return sub.End - sub.Begin
	}
	return r
}

// toAbsolute translates a position relative to sub back into the full
// buffer's coordinate space.
func toAbsolute(sub Extent, rel int) int { return sub.Begin + rel }

// isJobBoundary and isProcessBoundary classify tokens that can start a new
// job or process.
func isJobBoundary(k token.Kind) bool {
	return k == token.End || k == token.Background
}

func isProcessBoundary(k token.Kind) bool {
	return k == token.End || k == token.Background || k == token.Pipe
}

// jobOrProcessExtent runs a tokenizer with AcceptUnfinished over the
// substitution text and returns the extent bounded by the nearest boundary
// tokens straddling the (substitution-relative) cursor (spec §4.4).
func jobOrProcessExtent(text string, relCursor int, isBoundary func(token.Kind) bool) Extent {
	tz := token.New(text, token.Flags{AcceptUnfinished: true})
	begin, end := 0, len(text)
	haveEnd := false
	lastNonBoundaryEnd := 0

	for tz.Next() {
		tok := tz.Current()
		if isBoundary(tok.Kind) {
			// The zero-length End synthesized at end of input never
			// precedes the cursor.
			if tok.Length > 0 && tok.End() <= relCursor {
				begin = tok.End()
			} else if !haveEnd {
				// The extent stops at the end of the last real token before
				// this boundary, not at the boundary's own start: the
				// whitespace between them belongs to neither token. When the
				// cursor itself sits past that token, the extent runs to the
				// cursor.
				end = lastNonBoundaryEnd
				if end < relCursor {
					end = relCursor
				}
				haveEnd = true
			}
		} else {
			lastNonBoundaryEnd = tok.End()
		}
		if !tz.HasNext() {
			break
		}
	}
	if begin > end {
		begin = end
	}
	return Extent{begin, end}
}

// JobExtent returns the job extent around cursor: from just after the
// preceding unquoted End/Background token to just before the next, clamped
// to the surrounding substitution (spec §3.7).
func JobExtent(buffer string, cursor int) Extent {
	sub := SubstitutionExtent(buffer, cursor)
	relCursor := relative(sub, cursor)
	text := buffer[sub.Begin:sub.End]
	rel := jobOrProcessExtent(text, relCursor, isJobBoundary)
	return Extent{toAbsolute(sub, rel.Begin), toAbsolute(sub, rel.End)}
}

// ProcessExtent returns the process extent around cursor: from just after
// the preceding Pipe/End/Background token to just before the next, within
// the current job (spec §3.7).
func ProcessExtent(buffer string, cursor int) Extent {
	sub := SubstitutionExtent(buffer, cursor)
	relCursor := relative(sub, cursor)
	text := buffer[sub.Begin:sub.End]
	rel := jobOrProcessExtent(text, relCursor, isProcessBoundary)
	return Extent{toAbsolute(sub, rel.Begin), toAbsolute(sub, rel.End)}
}

// TokenExtent returns the extent of the String token under cursor (an empty
// extent at cursor when the cursor is not inside a String token), and the
// extent of the last String token ending at or before cursor (spec
// §3.7/§4.4; the second return is the zero Extent with havePrevious=false
// when there is no such String token).
func TokenExtent(buffer string, cursor int) (current Extent, previous Extent, havePrevious bool) {
	sub := SubstitutionExtent(buffer, cursor)
	relCursor := relative(sub, cursor)
	text := buffer[sub.Begin:sub.End]

	tz := token.New(text, token.Flags{AcceptUnfinished: true})
	var lastString Extent
	haveLastString := false

	for tz.Next() {
		tok := tz.Current()
		if tok.Kind == token.String && tok.Start <= relCursor && relCursor < tok.End() {
			prev, ok := extentIf(sub, lastString, haveLastString)
			return Extent{toAbsolute(sub, tok.Start), toAbsolute(sub, tok.End())}, prev, ok
		}
		if tok.Kind == token.String && tok.End() <= relCursor {
			lastString = Extent{tok.Start, tok.End()}
			haveLastString = true
		}
		if !tz.HasNext() {
			break
		}
	}
	prev, ok := extentIf(sub, lastString, haveLastString)
	return Extent{cursor, cursor}, prev, ok
}

func extentIf(sub Extent, rel Extent, have bool) (Extent, bool) {
	if !have {
		return Extent{}, false
	}
	return Extent{toAbsolute(sub, rel.Begin), toAbsolute(sub, rel.End)}, true
}

// linenoCache is a size-2 LRU of recently seen buffers, keyed by buffer
// content (spec §4.4 "Line number"). It records only the buffers
// themselves, not any newline counts.
type linenoCache struct {
	mu      sync.Mutex
	entries []linenoEntry
}

type linenoEntry struct {
	key string
}

var globalLinenoCache = &linenoCache{}

// Lineno counts '\n' in buffer[0:pos]. It keeps the two most recently seen
// buffers in a process-wide LRU keyed by content, but every call counts
// newlines from the start of the buffer: no earlier count is reused (spec
// §4.4).
func Lineno(buffer string, pos int) int {
	if pos > len(buffer) {
		pos = len(buffer)
	}
	if pos < 0 {
		pos = 0
	}

	globalLinenoCache.mu.Lock()
	defer globalLinenoCache.mu.Unlock()

	for i, e := range globalLinenoCache.entries {
		if e.key == buffer {
			if i != 0 {
				globalLinenoCache.entries[0], globalLinenoCache.entries[i] = globalLinenoCache.entries[i], globalLinenoCache.entries[0]
			}
			return countNewlines(buffer, pos)
		}
	}

	globalLinenoCache.entries = append([]linenoEntry{{key: buffer}}, globalLinenoCache.entries...)
	if len(globalLinenoCache.entries) > 2 {
		globalLinenoCache.entries = globalLinenoCache.entries[:2]
	}
	return countNewlines(buffer, pos)
}

func countNewlines(buffer string, pos int) int {
	n := 0
	for i := 0; i < pos && i < len(buffer); i++ {
		if buffer[i] == '\n' {
			n++
		}
	}
	return n
}
