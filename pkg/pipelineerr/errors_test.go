package pipelineerr

import (
	"errors"
	"testing"
)

func TestInput_SetsKind(t *testing.T) {
	err := Input("bad field %s", "x")
	if err.Kind != KindInput {
		t.Fatalf("expected KindInput, got %v", err.Kind)
	}
	if err.Error() != "bad field x" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestResource_CarriesRetryFlag(t *testing.T) {
	err := Resource(true, "loading")
	if err.Kind != KindResource || !err.Retry {
		t.Fatalf("expected KindResource with Retry=true, got %+v", err)
	}
}

func TestTransient_WrapsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Transient(cause, "llm call failed")
	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
	if err.Kind != KindTransientExternal {
		t.Fatalf("expected KindTransientExternal, got %v", err.Kind)
	}
}

func TestAs_RecognizesTaggedError(t *testing.T) {
	var err error = Unexpected(errors.New("boom"), "panic recovered")
	pe, ok := As(err)
	if !ok || pe.Kind != KindUnexpected {
		t.Fatalf("expected a recognized KindUnexpected error, got %+v ok=%v", pe, ok)
	}
}

func TestAs_RejectsPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	if ok {
		t.Fatal("expected a plain error to not be recognized as *Error")
	}
}
