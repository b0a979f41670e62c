package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

// The self re-exec "stage": Go cannot safely raw-fork() a running
// multi-threaded program (only the handful of async-signal-safe calls the
// runtime itself performs in syscall.ForkExec's internal child path are
// safe there), so Spawn launches a fresh copy of the current executable in
// this hidden mode instead of forking. RunStage is that fresh copy's entry
// point: it applies the platform backend, then replaces itself with the
// target command via syscall.Exec.
const (
	stageEnvSentinel = "_STEVELOCK_STAGE"
	stageEnvArgs     = "_STEVELOCK_STAGE_ARGS"

	// landlockRulesetStageFd is the fd the Linux ruleset arrives on: fd 3,
	// the first slot after stdin/stdout/stderr, via exec.Cmd.ExtraFiles.
	landlockRulesetStageFd = 3
)

// stageArgs is the JSON blob carried across the re-exec boundary in
// stageEnvArgs. Everything the stage process needs is prepared in the
// parent before the stage is started, because no allocator or arbitrary
// Go code should run in the stage beyond decoding this blob.
type stageArgs struct {
	Cmd     string   `json:"cmd"`
	Argv    []string `json:"argv"`
	Env     []string `json:"env,omitempty"`
	Profile string   `json:"profile,omitempty"` // macOS SBPL text
}

// IsStageInvocation reports whether this process was started as a
// Stevelock stage, i.e. whether RunStage should be called instead of
// normal program startup. Callers must check this before parsing any
// other flags or touching argv.
func IsStageInvocation() bool {
	return os.Getenv(stageEnvSentinel) != ""
}

// RunStage applies the backend and execs the target command. It never
// returns: on success the process image is replaced; on failure it calls
// os.Exit (126 for a backend-apply failure, 127 for an exec failure).
func RunStage() {
	var args stageArgs
	if err := json.Unmarshal([]byte(os.Getenv(stageEnvArgs)), &args); err != nil {
		fmt.Fprintf(os.Stderr, "[stevelock:stage] invalid stage arguments: %v\n", err)
		os.Exit(126)
	}

	switch runtime.GOOS {
	case "linux":
		rulesetFile := os.NewFile(uintptr(landlockRulesetStageFd), "landlock-ruleset")
		if err := applyLandlockRuleset(int(rulesetFile.Fd())); err != nil {
			fmt.Fprintf(os.Stderr, "[stevelock:stage] %v\n", err)
			os.Exit(126)
		}
		_ = rulesetFile.Close()
	case "darwin":
		if err := applySeatbeltProfile(args.Profile); err != nil {
			fmt.Fprintf(os.Stderr, "[stevelock:stage] %v\n", err)
			os.Exit(126)
		}
	}

	execPath, err := exec.LookPath(args.Cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[stevelock:stage] command not found: %s\n", args.Cmd)
		os.Exit(127)
	}

	env := args.Env
	if env == nil {
		// Inherit the parent's environment, minus the two stage variables
		// Spawn added, so the target is not itself detected as a stage.
		for _, kv := range os.Environ() {
			if strings.HasPrefix(kv, stageEnvSentinel+"=") || strings.HasPrefix(kv, stageEnvArgs+"=") {
				continue
			}
			env = append(env, kv)
		}
	}

	if err := syscall.Exec(execPath, args.Argv, env); err != nil { //nolint:gosec // target command is caller-supplied by design
		fmt.Fprintf(os.Stderr, "[stevelock:stage] exec(%s): %v\n", execPath, err)
		os.Exit(127)
	}
}
