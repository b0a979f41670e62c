//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Landlock flag and access-right values, matching the kernel's Landlock
// UAPI definitions.
const (
	landlockCreateRulesetVersion = 1 << 0

	accessFSExecute     = 1 << 0
	accessFSWriteFile   = 1 << 1
	accessFSReadFile    = 1 << 2
	accessFSReadDir     = 1 << 3
	accessFSRemoveDir   = 1 << 4
	accessFSRemoveFile  = 1 << 5
	accessFSMakeChar    = 1 << 6
	accessFSMakeDir     = 1 << 7
	accessFSMakeReg     = 1 << 8
	accessFSMakeSock    = 1 << 9
	accessFSMakeFifo    = 1 << 10
	accessFSMakeBlock   = 1 << 11
	accessFSMakeSym     = 1 << 12
	accessFSRefer       = 1 << 13 // ABI v2
	accessFSTruncate    = 1 << 14 // ABI v3
	accessFSIoctlDev    = 1 << 15 // ABI v5
	accessNetBindTCP    = 1 << 0  // ABI v4
	accessNetConnectTCP = 1 << 1  // ABI v4

	landlockRulePathBeneath = 1
)

type landlockRulesetAttr struct {
	handledAccessFS  uint64
	handledAccessNet uint64
}

type landlockPathBeneathAttr struct {
	allowedAccess uint64
	parentFd      int32
	_             [4]byte // padding
}

// probeLandlockABI queries the kernel's Landlock ABI version via a
// version-query ruleset creation.
func probeLandlockABI() (int, error) {
	ret, _, errno := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		0,
		0,
		uintptr(landlockCreateRulesetVersion),
	)
	if errno != 0 {
		return 0, fmt.Errorf("landlock_create_ruleset(VERSION): %w", errno)
	}
	return int(ret), nil
}

// accessFSRoughlyAll is the set of FS rights known up through ABI v3, the
// mask buildLandlockRuleset starts from. accessFSIoctlDev (ABI v5) is not
// included, so device ioctls are never handled by the ruleset.
func accessFSRoughlyAll() uint64 {
	return uint64(
		accessFSExecute | accessFSWriteFile | accessFSReadFile | accessFSReadDir |
			accessFSRemoveDir | accessFSRemoveFile | accessFSMakeChar | accessFSMakeDir |
			accessFSMakeReg | accessFSMakeSock | accessFSMakeFifo | accessFSMakeBlock |
			accessFSMakeSym | accessFSRefer | accessFSTruncate,
	)
}

func accessFSRoughlyRead() uint64 {
	return uint64(accessFSExecute | accessFSReadFile | accessFSReadDir)
}

// fsMaskForABI strips rights the running kernel's ABI doesn't recognize.
func fsMaskForABI(abi int) uint64 {
	mask := accessFSRoughlyAll()
	if abi < 2 {
		mask &^= accessFSRefer
	}
	if abi < 3 {
		mask &^= accessFSTruncate
	}
	return mask
}

// buildLandlockRuleset constructs the ruleset: handled-rights negotiation,
// baseline "/" read rule, per-write-dir full access, "/dev" full access,
// per-extra-read-dir read-subset, and handled-but-unallowed TCP rights
// when network is disabled and the kernel is ABI >= 4.
func buildLandlockRuleset(policy Policy, debug bool) (*os.File, error) {
	abi, err := probeLandlockABI()
	if err != nil {
		return nil, wrapError(KindRulesetCreate, err, "landlock ABI probe")
	}

	fsMask := fsMaskForABI(abi)
	attr := landlockRulesetAttr{handledAccessFS: fsMask}
	if !policy.Network && abi >= 4 {
		attr.handledAccessNet = accessNetBindTCP | accessNetConnectTCP
	}

	rulesetFd, _, errno := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		uintptr(unsafe.Pointer(&attr)), //nolint:gosec // required for syscall
		unsafe.Sizeof(attr),
		0,
	)
	if errno != 0 {
		return nil, wrapError(KindRulesetCreate, errno, "landlock_create_ruleset")
	}
	fd := int(rulesetFd)

	readAccess := accessFSRoughlyRead() & fsMask
	fullAccess := fsMask

	if err := addPathRule(fd, "/", readAccess); err != nil {
		unix.Close(fd)
		return nil, wrapError(KindRulesetAdd, err, "baseline / read rule")
	}

	for _, dir := range policy.Write {
		if err := addPathRule(fd, dir, fullAccess); err != nil {
			unix.Close(fd)
			return nil, wrapError(KindRulesetAdd, err, "write rule for %q", dir)
		}
	}

	if err := addPathRule(fd, "/dev", fullAccess); err != nil {
		unix.Close(fd)
		return nil, wrapError(KindRulesetAdd, err, "/dev rule")
	}

	for _, dir := range policy.Read {
		if err := addPathRule(fd, dir, readAccess); err != nil {
			unix.Close(fd)
			return nil, wrapError(KindRulesetAdd, err, "read rule for %q", dir)
		}
	}

	if debug {
		debugf("landlock", "built ruleset fd=%d abi=%d write=%d read=%d net=%v",
			fd, abi, len(policy.Write), len(policy.Read), policy.Network)
	}

	return os.NewFile(uintptr(fd), "landlock-ruleset"), nil
}

// addPathRule opens path with O_PATH|O_CLOEXEC and installs a
// LANDLOCK_RULE_PATH_BENEATH rule granting access beneath it.
func addPathRule(rulesetFd int, path string, access uint64) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("abs(%s): %w", path, err)
	}

	fd, err := unix.Open(absPath, unix.O_PATH|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open(%s, O_PATH): %w", absPath, err)
	}
	defer unix.Close(fd)

	attr := landlockPathBeneathAttr{
		allowedAccess: access,
		parentFd:      int32(fd), //nolint:gosec // fd from unix.Open fits in int32
	}

	_, _, errno := unix.Syscall(
		unix.SYS_LANDLOCK_ADD_RULE,
		uintptr(rulesetFd),
		landlockRulePathBeneath,
		uintptr(unsafe.Pointer(&attr)), //nolint:gosec // required for syscall
	)
	if errno != 0 {
		return fmt.Errorf("landlock_add_rule(%s): %w", absPath, errno)
	}
	return nil
}

// applyLandlockRuleset enforces the ruleset on the calling process: it
// must be called in the stage process, after stdio is wired and before
// exec.
func applyLandlockRuleset(rulesetFd int) error {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("prctl(NO_NEW_PRIVS): %w", err)
	}

	_, _, errno := unix.Syscall(unix.SYS_LANDLOCK_RESTRICT_SELF, uintptr(rulesetFd), 0, 0)
	if errno != 0 {
		return fmt.Errorf("landlock_restrict_self: %w", errno)
	}
	return nil
}
