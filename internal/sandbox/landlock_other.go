//go:build !linux

package sandbox

import (
	"errors"
	"os"
)

// errLandlockUnsupported is returned by every Landlock entry point on
// non-Linux builds. Stevelock dispatches on runtime.GOOS before calling
// into these, so they are reachable only if that dispatch is ever wrong —
// kept as a safety net.
var errLandlockUnsupported = errors.New("landlock: not supported on this platform")

func probeLandlockABI() (int, error) {
	return 0, errLandlockUnsupported
}

func buildLandlockRuleset(_ Policy, _ bool) (*os.File, error) {
	return nil, errLandlockUnsupported
}

func applyLandlockRuleset(_ int) error {
	return errLandlockUnsupported
}
