package navigator_test

import (
	"testing"

	"github.com/aledsdavies/opal/internal/navigator"
)

func TestScenarioEchoPipeGrep(t *testing.T) {
	buf := "echo hello | grep h"
	cursor := 7 // inside "hello"

	cur, _, _ := navigator.TokenExtent(buf, cursor)
	if buf[cur.Begin:cur.End] != "hello" {
		t.Fatalf("token extent = %q, want %q", buf[cur.Begin:cur.End], "hello")
	}

	proc := navigator.ProcessExtent(buf, cursor)
	if buf[proc.Begin:proc.End] != "echo hello" {
		t.Fatalf("process extent = %q, want %q", buf[proc.Begin:proc.End], "echo hello")
	}

	job := navigator.JobExtent(buf, cursor)
	if buf[job.Begin:job.End] != buf {
		t.Fatalf("job extent = %q, want the entire buffer %q", buf[job.Begin:job.End], buf)
	}
}

func TestScenarioSubshellProcessExtent(t *testing.T) {
	buf := "echo $(date); ls"
	cursor := 10 // inside "date"

	proc := navigator.ProcessExtent(buf, cursor)
	if buf[proc.Begin:proc.End] != "date" {
		t.Fatalf("process extent = %q, want %q", buf[proc.Begin:proc.End], "date")
	}

	sub := navigator.SubstitutionExtent(buf, cursor)
	if buf[sub.Begin:sub.End] != "date" {
		t.Fatalf("substitution extent inside the subshell should be %q, got %q", "date", buf[sub.Begin:sub.End])
	}

	outerCursor := 14 // inside "ls", outside the subshell
	outerSub := navigator.SubstitutionExtent(buf, outerCursor)
	if outerSub.Begin != 0 || outerSub.End != len(buf) {
		t.Fatalf("outside any subshell, substitution should be the whole buffer, got %+v", outerSub)
	}
}

func TestSubstitutionExtentInnermost(t *testing.T) {
	buf := "echo $(date)"
	cursor := 9 // inside "date", within the parens

	sub := navigator.SubstitutionExtent(buf, cursor)
	want := "date"
	if buf[sub.Begin:sub.End] != want {
		t.Fatalf("substitution extent = %q, want %q", buf[sub.Begin:sub.End], want)
	}
}

func TestExtentNesting(t *testing.T) {
	buf := "echo hello | grep h"
	for cursor := 0; cursor <= len(buf); cursor++ {
		tokExt, _, _ := navigator.TokenExtent(buf, cursor)
		proc := navigator.ProcessExtent(buf, cursor)
		job := navigator.JobExtent(buf, cursor)
		sub := navigator.SubstitutionExtent(buf, cursor)

		if tokExt.Begin < proc.Begin || tokExt.End > proc.End {
			t.Fatalf("cursor %d: token %+v not within process %+v", cursor, tokExt, proc)
		}
		if proc.Begin < job.Begin || proc.End > job.End {
			t.Fatalf("cursor %d: process %+v not within job %+v", cursor, proc, job)
		}
		if job.Begin < sub.Begin || job.End > sub.End {
			t.Fatalf("cursor %d: job %+v not within substitution %+v", cursor, job, sub)
		}
		if sub.Begin < 0 || sub.End > len(buf) {
			t.Fatalf("cursor %d: substitution %+v out of buffer bounds", cursor, sub)
		}
	}
}

func TestTokenExtentBetweenTokensReturnsPreviousString(t *testing.T) {
	buf := "echo  hello"
	cursor := 5 // between "echo" and "hello", in the double space

	cur, prev, ok := navigator.TokenExtent(buf, cursor)
	if !cur.Empty() {
		t.Fatalf("expected an empty current extent between tokens, got %+v", cur)
	}
	if !ok {
		t.Fatal("expected a previous String token")
	}
	if buf[prev.Begin:prev.End] != "echo" {
		t.Fatalf("previous token = %q, want %q", buf[prev.Begin:prev.End], "echo")
	}
}

func TestLineno(t *testing.T) {
	buf := "a\nb\nc"
	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{4, 2},
		{100, 2}, // clamped
	}
	for _, tt := range tests {
		if got := navigator.Lineno(buf, tt.pos); got != tt.want {
			t.Errorf("Lineno(%q, %d) = %d, want %d", buf, tt.pos, got, tt.want)
		}
	}
}

func TestLinenoCacheStableAcrossRepeatedCalls(t *testing.T) {
	buf := "x\ny\nz\nw"
	for i := 0; i < 5; i++ {
		if got := navigator.Lineno(buf, 6); got != 3 {
			t.Fatalf("call %d: Lineno = %d, want 3", i, got)
		}
	}
}
