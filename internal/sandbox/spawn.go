package sandbox

import (
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
)

// Spawn validates preconditions, compiles the backend artifact, allocates
// the three stdio pipes, and starts the stage process: the Go-shaped
// equivalent of a fork/child/parent sequence, reworked into a self
// re-exec rather than a literal fork.
func (s *Sandbox) Spawn(cmd string, argv []string, env []string) error {
	if cmd == "" {
		err := newError(KindInvalidCommand, "cmd must not be empty")
		s.setErr(err)
		return err
	}
	if s.pid != -1 {
		err := newError(KindInvalidContext, "sandbox already spawned")
		s.setErr(err)
		return err
	}

	if err := validateScopes(s.policy); err != nil {
		s.setErr(err)
		return err
	}

	var rulesetFile *os.File
	if runtime.GOOS == "linux" {
		rf, err := buildLandlockRuleset(s.policy, debugEnabled())
		if err != nil {
			s.setErr(err)
			return err
		}
		rulesetFile = rf
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		closeRuleset(rulesetFile)
		e := wrapError(KindPipe, err, "stdin pipe")
		s.setErr(e)
		return e
	}
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		closeRuleset(rulesetFile)
		e := wrapError(KindPipe, err, "stdout pipe")
		s.setErr(e)
		return e
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		stdoutR.Close()
		stdoutW.Close()
		closeRuleset(rulesetFile)
		e := wrapError(KindPipe, err, "stderr pipe")
		s.setErr(e)
		return e
	}

	exe, err := os.Executable()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		stdoutR.Close()
		stdoutW.Close()
		stderrR.Close()
		stderrW.Close()
		closeRuleset(rulesetFile)
		e := wrapError(KindFork, err, "resolve own executable")
		s.setErr(e)
		return e
	}

	// Argv vector is [cmd, arg1 ... argn] regardless of whether the caller
	// already included cmd as element zero.
	fullArgv := make([]string, 0, len(argv)+1)
	fullArgv = append(fullArgv, cmd)
	fullArgv = append(fullArgv, argv...)

	blob, err := json.Marshal(stageArgs{
		Cmd:     cmd,
		Argv:    fullArgv,
		Env:     env,
		Profile: s.macProfile,
	})
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		stdoutR.Close()
		stdoutW.Close()
		stderrR.Close()
		stderrW.Close()
		closeRuleset(rulesetFile)
		e := wrapError(KindFork, err, "encode stage arguments")
		s.setErr(e)
		return e
	}

	stage := exec.Command(exe) //nolint:gosec // exe is our own resolved executable path
	stage.Env = append(os.Environ(), stageEnvSentinel+"=1", stageEnvArgs+"="+string(blob))
	stage.Stdin = stdinR
	stage.Stdout = stdoutW
	stage.Stderr = stderrW
	if rulesetFile != nil {
		stage.ExtraFiles = []*os.File{rulesetFile}
	}

	if err := stage.Start(); err != nil {
		stdinR.Close()
		stdinW.Close()
		stdoutR.Close()
		stdoutW.Close()
		stderrR.Close()
		stderrW.Close()
		closeRuleset(rulesetFile)
		e := wrapError(KindFork, err, "start stage process")
		s.setErr(e)
		return e
	}

	// Parent closes its copies of the child-owned pipe ends and the
	// ruleset fd now that the stage process holds its own.
	stdinR.Close()
	stdoutW.Close()
	stderrW.Close()
	closeRuleset(rulesetFile)

	s.pid = stage.Process.Pid
	s.proc = stage.Process
	s.stdinW = stdinW
	s.stdoutR = stdoutR
	s.stderrR = stderrR

	debugf("spawn", "started stage pid=%d cmd=%s", s.pid, cmd)
	return nil
}

func closeRuleset(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
