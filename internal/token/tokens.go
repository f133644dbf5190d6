// Package token implements the tokenizer: the single-pass lexer that the
// parser, command-line navigator, and completion engine all drive (spec
// layer L1). See Tokenizer for the cursor-style driving API.
package token

// Kind is the tag of a Token's sum type. Names are semantic, not surface
// syntax — RedirectOut covers both `>` and `^`, for example.
type Kind int

const (
	// None is the Tokenizer's initial state before Next is first called.
	None Kind = iota
	// String is a literal word, unescaped only by the tokenizer's own
	// escape rules (quote removal and backslash handling are NOT applied
	// here; callers that want unescaped text use Unescape).
	String
	// Pipe is `|`, carrying the source fd in Token.Fd. `|` alone implies fd 1.
	Pipe
	// End is `;`, a newline, or a synthetic end-of-command marker.
	End
	// Background is `&`.
	Background
	// RedirectOut is `>` or `^`, carrying the target fd in Token.Fd.
	RedirectOut
	// RedirectAppend is `>>` or `^^`, carrying the target fd in Token.Fd.
	RedirectAppend
	// RedirectIn is `<`, carrying the target fd in Token.Fd.
	RedirectIn
	// RedirectFd is `>&` or `^&`, carrying the source fd in Token.Fd. The
	// caller reads the dup target as the following token.
	RedirectFd
	// RedirectNoclob is `>?`, carrying the target fd in Token.Fd.
	RedirectNoclob
	// Comment is `#...` to end of line, without the leading `#`. Only
	// emitted when Flags.ShowComments is set.
	Comment
	// Error is terminal: the tokenizer emits no further tokens after one.
	Error
)

// String implements fmt.Stringer for debugging and test failure output.
func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case String:
		return "String"
	case Pipe:
		return "Pipe"
	case End:
		return "End"
	case Background:
		return "Background"
	case RedirectOut:
		return "RedirectOut"
	case RedirectAppend:
		return "RedirectAppend"
	case RedirectIn:
		return "RedirectIn"
	case RedirectFd:
		return "RedirectFd"
	case RedirectNoclob:
		return "RedirectNoclob"
	case Comment:
		return "Comment"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrorKind distinguishes why a terminal Error token was produced.
type ErrorKind int

const (
	// NoError is the zero value; only meaningful on a non-Error token.
	NoError ErrorKind = iota
	UnterminatedQuote
	UnterminatedEscape
	UnterminatedSubshell
	OtherError
	InvalidToken
)

func (e ErrorKind) String() string {
	switch e {
	case NoError:
		return "NoError"
	case UnterminatedQuote:
		return "UnterminatedQuote"
	case UnterminatedEscape:
		return "UnterminatedEscape"
	case UnterminatedSubshell:
		return "UnterminatedSubshell"
	case OtherError:
		return "OtherError"
	case InvalidToken:
		return "InvalidToken"
	default:
		return "Unknown"
	}
}

// InvalidFd is the sentinel fd value for a redirection/pipe token whose fd
// prefix overflowed or was otherwise unparsable; callers reject it.
const InvalidFd = -1

// Token is the tagged sum produced by the tokenizer, carrying its source
// start offset and length (spec §3.3: "Each token carries its source start
// offset and length").
type Token struct {
	Kind Kind

	// Text is the literal text for String/Comment, and the error message
	// for Error (empty when the tokenizer is squashing errors).
	Text string

	// Fd is the fd payload for Pipe/RedirectOut/RedirectAppend/RedirectIn/
	// RedirectFd/RedirectNoclob: the pipe's source fd, or a redirection's
	// target (source, for RedirectFd) fd. InvalidFd if the fd prefix could
	// not be parsed.
	Fd int

	// ErrKind is valid only when Kind == Error.
	ErrKind ErrorKind

	// OpenAt is the byte offset of the opening character of the construct
	// left unterminated (the quote, or the `(` of a subshell) when
	// ErrKind is UnterminatedQuote or UnterminatedSubshell. Zero otherwise.
	OpenAt int

	Start  int
	Length int
}

// End returns the token's exclusive end offset, Start+Length.
func (t Token) End() int {
	return t.Start + t.Length
}

// Flags controls tokenizer behavior (spec §4.3).
type Flags struct {
	// AcceptUnfinished: open quotes/parens at EOF produce a best-effort
	// String token and a clean end, instead of an Error token.
	AcceptUnfinished bool
	// ShowComments emits Comment tokens instead of silently skipping them.
	ShowComments bool
	// ShowBlankLines emits an End token per newline, instead of coalescing
	// runs of whitespace+newlines into one End.
	ShowBlankLines bool
	// SquashErrors makes Error tokens carry an empty Text, for callers
	// that format their own error message.
	SquashErrors bool
}
