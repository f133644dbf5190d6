package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aledsdavies/opal/internal/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(1 == 1, "math works")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
		if !strings.Contains(msg, "buffer must not be empty") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()
	invariant.Precondition(false, "buffer must not be empty")
}

func TestNotNilTypedNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for typed nil pointer")
		}
	}()
	var p *int
	invariant.NotNil(p, "p")
}

func TestNotNilPass(t *testing.T) {
	x := 1
	invariant.NotNil(&x, "x")
}

func TestInRange(t *testing.T) {
	invariant.InRange(3, 0, 5, "fd")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range value")
		}
	}()
	invariant.InRange(-1, 0, 5, "fd")
}

func TestInvariantFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(fmt.Sprintf("%v", r), "INVARIANT VIOLATION") {
			t.Errorf("expected INVARIANT VIOLATION, got: %v", r)
		}
	}()
	invariant.Invariant(false, "position must advance")
}
