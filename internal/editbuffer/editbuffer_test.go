package editbuffer_test

import (
	"testing"

	"github.com/aledsdavies/opal/internal/editbuffer"
)

func TestSetBufferClampsCursor(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("hello", 100)
	if s.GetCursor() != 5 {
		t.Fatalf("cursor = %d, want 5", s.GetCursor())
	}
	s.SetBuffer("hello", -3)
	if s.GetCursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.GetCursor())
	}
}

func TestWriteReplace(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo hello world", 0)
	if err := s.Write(editbuffer.RegionToken, editbuffer.WriteReplace, "X"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	text, cursor := s.GetBuffer()
	if text != "X hello world" {
		t.Fatalf("text = %q, want %q", text, "X hello world")
	}
	if cursor != 1 {
		t.Fatalf("cursor = %d, want 1", cursor)
	}
}

func TestWriteAppendLeavesCursor(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo hi", 2)
	if err := s.Write(editbuffer.RegionToken, editbuffer.WriteAppend, "X"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	text, cursor := s.GetBuffer()
	if text != "echoX hi" {
		t.Fatalf("text = %q, want %q", text, "echoX hi")
	}
	if cursor != 2 {
		t.Fatalf("cursor should be unchanged after append, got %d", cursor)
	}
}

func TestWriteInsertAtCursor(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo hi", 2)
	if err := s.Write(editbuffer.RegionToken, editbuffer.WriteInsert, "X"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	text, cursor := s.GetBuffer()
	if text != "ecXho hi" {
		t.Fatalf("text = %q, want %q", text, "ecXho hi")
	}
	if cursor != 3 {
		t.Fatalf("cursor = %d, want 3", cursor)
	}
}

func TestReadWholeBuffer(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo hello | grep h", 7)
	got := s.Read(editbuffer.RegionBuffer, editbuffer.ReadOptions{})
	if got != "echo hello | grep h" {
		t.Fatalf("got %q", got)
	}
}

func TestReadCutAtCursor(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo hello", 7)
	got := s.Read(editbuffer.RegionBuffer, editbuffer.ReadOptions{CutAtCursor: true})
	if got != "echo he" {
		t.Fatalf("got %q, want %q", got, "echo he")
	}
}

func TestReadTokenizeEmitsOnePerLine(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("echo 'a b' c", 0)
	got := s.Read(editbuffer.RegionBuffer, editbuffer.ReadOptions{Tokenize: true})
	want := "echo\na b\nc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPushPopOverrideRoundTrip(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("original", 3)

	s.PushOverride("hypothetical")
	text, cursor := s.GetBuffer()
	if text != "hypothetical" || cursor != len("hypothetical") {
		t.Fatalf("override not visible: text=%q cursor=%d", text, cursor)
	}

	s.PopOverride()
	text, cursor = s.GetBuffer()
	if text != "original" || cursor != 3 {
		t.Fatalf("buffer not restored after pop: text=%q cursor=%d", text, cursor)
	}
}

func TestWriteWhileOverrideActiveFails(t *testing.T) {
	s := editbuffer.New()
	s.SetBuffer("original", 0)
	s.PushOverride("hypothetical")
	if err := s.Write(editbuffer.RegionBuffer, editbuffer.WriteReplace, "x"); err == nil {
		t.Fatal("expected an error writing while an override is active")
	}
}
