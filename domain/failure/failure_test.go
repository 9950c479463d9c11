package failure

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsAndPredicates(t *testing.T) {
	cases := []struct {
		err      error
		notFound bool
		external bool
	}{
		{NotFound("segment", "no tooltip"), true, false},
		{LowConfidence("match", 0.3, 0.5), true, false},
		{External("ocr", errors.New("engine down")), false, true},
		{errors.New("plain"), false, false},
		{fmt.Errorf("wrapped: %w", NotFound("hash", "empty index")), true, false},
	}
	for i, c := range cases {
		if got := IsNotFound(c.err); got != c.notFound {
			t.Errorf("case %d: IsNotFound=%v want %v", i, got, c.notFound)
		}
		if got := IsExternal(c.err); got != c.external {
			t.Errorf("case %d: IsExternal=%v want %v", i, got, c.external)
		}
	}
}

func TestExternalUnwraps(t *testing.T) {
	cause := errors.New("tesseract missing")
	err := External("ocr", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if Reason(err) != "ocr unavailable" {
		t.Fatalf("unexpected reason %q", Reason(err))
	}
}

func TestReason(t *testing.T) {
	if got := Reason(NotFound("tooltip", "no tooltip box")); got != "no tooltip box" {
		t.Fatalf("got %q", got)
	}
	if got := Reason(nil); got != "no result" {
		t.Fatalf("got %q", got)
	}
}
