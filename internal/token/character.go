package token

// ASCII lookup tables, built once at init time the way the teacher lexer
// precomputes isWhitespace/isLetter/isDigit for fast classification.
var isSeparator [128]bool

func init() {
	for _, c := range []byte{' ', '\t', '\n', '\r', ';', '|', '<', '>', '&', 0} {
		isSeparator[c] = true
	}
}

func isSeparatorChar(ch rune) bool {
	if ch >= 0 && ch < 128 {
		return isSeparator[byte(ch)]
	}
	return false
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
