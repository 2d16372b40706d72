package convert

import (
	"io"
	"os"
	"os/exec"

	"github.com/exascience/illprep/internal"
)

// An Invoker runs an external tool and reports its exit status.
type Invoker interface {
	Invoke(tool string, args []string) (status int, err error)
}

// ExecInvoker runs tools as subprocesses. Output of the tool goes to
// Stdout and Stderr, or to the corresponding streams of the current
// process when these are nil.
type ExecInvoker struct {
	Stdout, Stderr io.Writer
}

// Invoke implements Invoker.
func (inv ExecInvoker) Invoke(tool string, args []string) (int, error) {
	cmd := exec.Command(tool, args...)
	cmd.Stdout = inv.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = inv.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return internal.RunCmd(cmd)
}
