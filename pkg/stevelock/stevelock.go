// Package stevelock is the public façade over the sandbox core: a thin
// re-export so host code depends on one stable import path rather than
// reaching into internal/sandbox directly.
package stevelock

import (
	"syscall"

	"github.com/boonbane/stevelock/internal/sandbox"
)

// Policy is the host-facing options object: which directories the child
// may read beyond the platform baseline, which it may write, and whether
// it may use the TCP network.
type Policy = sandbox.Policy

// Sandbox owns one policy and at most one spawned child.
type Sandbox = sandbox.Sandbox

// ErrorKind enumerates the structured failure modes a Sandbox can report.
type ErrorKind = sandbox.ErrorKind

// New constructs a Sandbox from policy, probing the platform backend
// eagerly so incompatibility surfaces before any process is spawned.
func New(policy Policy) (*Sandbox, error) {
	return sandbox.New(policy)
}

// IsStageInvocation reports whether the current process was started as a
// Stevelock stage. Host programs that embed this package as a library must
// call this, and RunStage if it returns true, at the very top of main —
// before parsing any other flags — exactly once per process.
func IsStageInvocation() bool {
	return sandbox.IsStageInvocation()
}

// RunStage applies the sandbox backend and execs the target command. It
// never returns.
func RunStage() {
	sandbox.RunStage()
}

// Signal re-exports syscall.Signal so callers of Kill need not import
// syscall themselves just to name a signal.
type Signal = syscall.Signal
