package main

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/spf13/cobra"
)

// write-file, read-file and probe-net are small fixture binaries meant to
// run *inside* a sandbox (as the Spawn target), used by the test suite to
// assert filesystem/network outcomes against a Policy. They mirror the
// project's own C test fixtures (testbox_write_file/testbox_read_file and
// the net probe) argument-for-argument and exit-code-for-exit-code, so the
// same scenarios that exercise those fixtures exercise these.

// writeFileCmd reads stdin to EOF and writes it verbatim to --path,
// truncating/creating the file — testbox_write_file's exact contract.
func writeFileCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "write-file",
		Short: "write stdin to --path, for sandbox write-scope tests",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if path == "" {
				os.Exit(3)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				os.Exit(4)
			}
			defer f.Close()

			if _, err := io.Copy(f, c.InOrStdin()); err != nil {
				os.Exit(6)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "file path")
	return cmd
}

// readFileCmd reads --path and writes it verbatim to stdout — matches
// testbox_read_file's contract.
func readFileCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "read-file",
		Short: "read --path and print it to stdout, for sandbox read-scope tests",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if path == "" {
				os.Exit(9)
			}
			f, err := os.Open(path)
			if err != nil {
				os.Exit(10)
			}
			defer f.Close()

			if _, err := io.Copy(os.Stdout, f); err != nil {
				os.Exit(12)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "file path")
	return cmd
}

// Exit codes below mirror net_probe_connect/net_probe_bind: 0 means "the
// network operation is as permitted" (either it plainly succeeded, or it
// failed with an ordinary transport error that has nothing to do with the
// sandbox), 10 means the sandbox denied the operation, 11 is any other
// failure, 12 is a usage error.
const (
	netExitOK         = 0
	netExitDenied     = 10
	netExitOtherError = 11
	netExitUsage      = 12
)

// probeNetCmd exercises property 7 ("connect or bind"): its one positional
// argument selects which socket operation to attempt against a fixed
// loopback target, exactly as the project's own net probe does.
func probeNetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe-net <connect|bind>",
		Short: "attempt a TCP connect or bind, for sandbox network-scope tests",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "connect":
				os.Exit(probeConnect("127.0.0.1:9"))
			case "bind":
				os.Exit(probeBind("127.0.0.1:0"))
			default:
				os.Exit(netExitUsage)
			}
			return nil
		},
	}
	return cmd
}

// probeConnect attempts a blocking TCP connect to addr, classifying the
// result the way net_probe_connect does: access errors are the sandbox
// denying the socket, the ordinary "nobody is listening" family of errors
// is treated as an acceptable transport outcome (not a sandbox denial).
func probeConnect(addr string) int {
	conn, err := net.Dial("tcp", addr)
	if err == nil {
		conn.Close()
		return netExitOK
	}
	if errnoIs(err, syscall.EACCES, syscall.EPERM) {
		return netExitDenied
	}
	if errnoIs(err, syscall.ECONNREFUSED, syscall.ETIMEDOUT, syscall.ENETUNREACH, syscall.EHOSTUNREACH) {
		return netExitOK
	}
	if isTimeout(err) {
		return netExitOK
	}
	return netExitOtherError
}

// probeBind attempts a TCP bind (via Listen, which binds then listens) to
// addr, classifying the result the way net_probe_bind does: unlike
// connect, any non-access failure is just "other error" — there is no
// transport-error allowance for bind.
func probeBind(addr string) int {
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		ln.Close()
		return netExitOK
	}
	if errnoIs(err, syscall.EACCES, syscall.EPERM) {
		return netExitDenied
	}
	return netExitOtherError
}

func errnoIs(err error, candidates ...syscall.Errno) bool {
	for _, c := range candidates {
		if errors.Is(err, c) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
