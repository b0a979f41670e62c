// Command stevelockctl is the demonstration CLI and test-fixture host for
// the Stevelock sandbox core: a thin, external consumer of the public API,
// not part of the core itself.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/boonbane/stevelock/internal/sandboxconfig"
	"github.com/boonbane/stevelock/pkg/stevelock"
)

var (
	debug         bool
	configPath    string
	templateName  string
	listTemplates bool
	readDirs      []string
	writeDirs     []string
	allowNetwork  bool
	exitCode      int
)

func main() {
	// Stage detection must happen before anything else touches os.Args,
	// before cobra parses any flags.
	if stevelock.IsStageInvocation() {
		stevelock.RunStage()
		return // unreachable: RunStage calls os.Exit or replaces the process image
	}

	rootCmd := &cobra.Command{
		Use:   "stevelockctl [flags] -- command [args...]",
		Short: "Run a command under a Stevelock filesystem/network sandbox",
		RunE:  runCommand,
		Args:  cobra.ArbitraryArgs,
	}
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a JSONC policy file")
	rootCmd.Flags().StringVarP(&templateName, "template", "t", "", "use a built-in policy template")
	rootCmd.Flags().BoolVar(&listTemplates, "list-templates", false, "list built-in templates and exit")
	rootCmd.Flags().StringArrayVar(&readDirs, "read", nil, "additional readable directory (repeatable)")
	rootCmd.Flags().StringArrayVar(&writeDirs, "write", nil, "writable directory (repeatable)")
	rootCmd.Flags().BoolVar(&allowNetwork, "network", false, "allow TCP network access")
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(writeFileCmd(), readFileCmd(), probeNetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stevelockctl: %v\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func runCommand(_ *cobra.Command, args []string) error {
	if listTemplates {
		for _, t := range sandboxconfig.ListTemplates() {
			fmt.Printf("  %-16s %s\n", t.Name, t.Description)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no command specified; use -- command [args...]")
	}
	if debug {
		_ = os.Setenv("STEVELOCK_DEBUG", "1")
	}

	policy, err := resolvePolicy()
	if err != nil {
		return err
	}

	sb, err := stevelock.New(policy)
	if err != nil {
		return fmt.Errorf("create sandbox: %w", err)
	}
	defer sb.Destroy()

	if err := sb.Spawn(args[0], args[1:], nil); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	relayStdio(sb)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range sigCh {
			if s, ok := sig.(syscall.Signal); ok {
				sb.Kill(s)
			}
		}
	}()

	exitCode = sb.Wait()
	signal.Stop(sigCh)
	close(sigCh)
	if exitCode < 0 {
		return fmt.Errorf("wait: %s", sb.Error())
	}
	return nil
}

// resolvePolicy loads a Policy from --template, then --config, then the
// --read/--write/--network flags, in that precedence order.
func resolvePolicy() (stevelock.Policy, error) {
	switch {
	case templateName != "":
		f, err := sandboxconfig.LoadTemplate(templateName)
		if err != nil {
			return stevelock.Policy{}, fmt.Errorf("load template: %w\nuse --list-templates to see available templates", err)
		}
		return f.Policy(), nil
	case configPath != "":
		f, err := sandboxconfig.Load(configPath)
		if err != nil {
			return stevelock.Policy{}, fmt.Errorf("load config: %w", err)
		}
		return f.Policy(), nil
	default:
		return stevelock.Policy{
			Read:    sandboxconfig.ExpandGlobPatterns(readDirs),
			Write:   sandboxconfig.ExpandGlobPatterns(writeDirs),
			Network: allowNetwork,
		}, nil
	}
}

// relayStdio wires this process's own stdio to the sandbox's borrowed
// descriptors, presenting them as host-native I/O objects.
func relayStdio(sb *stevelock.Sandbox) {
	stdinW := os.NewFile(uintptr(sb.StdinFd()), "sandbox-stdin")
	stdoutR := os.NewFile(uintptr(sb.StdoutFd()), "sandbox-stdout")
	stderrR := os.NewFile(uintptr(sb.StderrFd()), "sandbox-stderr")

	go func() {
		_, _ = io.Copy(stdinW, os.Stdin)
		_ = stdinW.Close()
	}()
	go func() { _, _ = io.Copy(os.Stdout, stdoutR) }()
	go func() { _, _ = io.Copy(os.Stderr, stderrR) }()
}
