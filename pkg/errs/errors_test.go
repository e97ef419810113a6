package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NoData("empty")); got != CodeNoData {
		t.Fatalf("code = %s, want %s", got, CodeNoData)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("untyped error must have no code, got %s", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("nil error must have no code, got %s", got)
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ModelUnavailable("v3"))
	if !IsModelUnavailable(err) {
		t.Fatalf("wrapped typed error not recognized: %v", err)
	}
}

func TestUpstreamTimeoutWraps(t *testing.T) {
	err := UpstreamTimeout("get_observations", context.DeadlineExceeded)
	if !IsUpstreamTimeout(err) {
		t.Fatalf("expected upstream timeout code")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("underlying cause must stay reachable")
	}
}

func TestWithParam(t *testing.T) {
	err := Validation("bad weights").WithParam("sum", 1.2)
	if err.Params["sum"] != 1.2 {
		t.Fatalf("param lost: %+v", err.Params)
	}
}

func TestErrorMessage(t *testing.T) {
	base := NoDataf("subject %s has no observations", "kw-1")
	if base.Error() != "subject kw-1 has no observations" {
		t.Fatalf("message = %q", base.Error())
	}
	wrapped := Validation("invalid").WithError(errors.New("cause"))
	if wrapped.Error() != "invalid: cause" {
		t.Fatalf("message = %q", wrapped.Error())
	}
}
