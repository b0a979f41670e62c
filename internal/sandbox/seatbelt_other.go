//go:build !darwin

package sandbox

import "errors"

// errSeatbeltUnsupported mirrors errLandlockUnsupported's role: Stevelock
// dispatches on runtime.GOOS before calling into these, so this is a safety
// net rather than a reachable path.
var errSeatbeltUnsupported = errors.New("seatbelt: not supported on this platform")

func resolveSeatbeltSymbols() error {
	return errSeatbeltUnsupported
}

func applySeatbeltProfile(_ string) error {
	return errSeatbeltUnsupported
}
