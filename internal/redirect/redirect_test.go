package redirect_test

import (
	"testing"

	"github.com/aledsdavies/opal/internal/redirect"
	"github.com/aledsdavies/opal/internal/token"
)

func TestFromTokenFile(t *testing.T) {
	tests := []struct {
		name   string
		kind   token.Kind
		fd     int
		target string
		want   redirect.Redirection
	}{
		{"write", token.RedirectOut, 1, "out.txt", redirect.File(1, "out.txt", redirect.Write, false)},
		{"append", token.RedirectAppend, 2, "log.txt", redirect.File(2, "log.txt", redirect.Append, false)},
		{"noclob", token.RedirectNoclob, 1, "out.txt", redirect.File(1, "out.txt", redirect.WriteNoclob, false)},
		{"read", token.RedirectIn, 0, "in.txt", redirect.File(0, "in.txt", redirect.Read, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := redirect.FromToken(token.Token{Kind: tt.kind, Fd: tt.fd}, tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromTokenDupFd(t *testing.T) {
	got, err := redirect.FromToken(token.Token{Kind: token.RedirectFd, Fd: 2}, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := redirect.DupFd(2, 1, false)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestFromTokenDupFdInputSide(t *testing.T) {
	got, err := redirect.FromToken(token.Token{Kind: token.RedirectFd, Fd: 0}, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsInput {
		t.Fatalf("expected dup onto fd 0 to be marked input-side, got %+v", got)
	}
}

func TestFromTokenCloseShorthand(t *testing.T) {
	got, err := redirect.FromToken(token.Token{Kind: token.RedirectFd, Fd: 2}, "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != redirect.KindClose || got.Fd != 2 {
		t.Fatalf("got %+v, want Close{fd=2}", got)
	}
}

func TestFromTokenPipe(t *testing.T) {
	got, err := redirect.FromToken(token.Token{Kind: token.Pipe, Fd: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != redirect.KindPipe || got.Fd != 1 {
		t.Fatalf("got %+v, want Pipe{fd=1}", got)
	}
}

func TestFromTokenInvalidDupTarget(t *testing.T) {
	_, err := redirect.FromToken(token.Token{Kind: token.RedirectFd, Fd: 2}, "abc")
	if err == nil {
		t.Fatal("expected error for non-numeric dup target")
	}
}

func TestModeOpenFlags(t *testing.T) {
	create, exclusive, truncate, appendFlag, write := redirect.Append.OpenFlags()
	if !create || exclusive || truncate || !appendFlag || !write {
		t.Fatalf("Append flags wrong: create=%v exclusive=%v truncate=%v append=%v write=%v",
			create, exclusive, truncate, appendFlag, write)
	}
	create, exclusive, _, _, write = redirect.WriteNoclob.OpenFlags()
	if !create || !exclusive || !write {
		t.Fatalf("WriteNoclob flags wrong: create=%v exclusive=%v write=%v", create, exclusive, write)
	}
}
