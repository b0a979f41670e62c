package sandbox

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{KindOK, "OK"},
		{KindError, "ERROR"},
		{KindUnsupportedKernel, "UNSUPPORTED_KERNEL"},
		{KindRulesetCreate, "RULESET_CREATE"},
		{KindRulesetAdd, "RULESET_ADD"},
		{KindPipe, "PIPE"},
		{KindFork, "FORK"},
		{KindInvalidContext, "INVALID_CONTEXT"},
		{KindInvalidCommand, "INVALID_COMMAND"},
		{KindInvalidScope, "INVALID_SCOPE"},
		{ErrorKind(999), "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestNewErrorFormatsDetail(t *testing.T) {
	err := newError(KindInvalidScope, "entry %d (%q) bad", 2, "/tmp")
	if err.Kind != KindInvalidScope {
		t.Fatalf("Kind = %v, want KindInvalidScope", err.Kind)
	}
	want := "entry 2 (\"/tmp\") bad"
	if err.Detail != want {
		t.Errorf("Detail = %q, want %q", err.Detail, want)
	}
	if err.Err != nil {
		t.Errorf("Err = %v, want nil", err.Err)
	}
}

func TestWrapErrorUnwraps(t *testing.T) {
	cause := errors.New("permission denied")
	err := wrapError(KindRulesetAdd, cause, "add rule for %q", "/etc")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	wantMsg := "RULESET_ADD: add rule for \"/etc\": permission denied"
	if err.Error() != wantMsg {
		t.Errorf("Error() = %q, want %q", err.Error(), wantMsg)
	}
}
