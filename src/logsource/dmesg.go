package logsource

import (
	"fmt"
	"os/exec"

	"sysdoctor-agent/src/contracts"
)

// NewDmesgSource runs dmesg and returns a source over the kernel ring
// buffer snapshot. The process output is fully buffered by the pipe; a
// truncated read surfaces as an early EOF, which the pipeline tolerates.
func NewDmesgSource() (Source, error) {
	cmd := exec.Command("dmesg", "--ctime", "--nopager")
	return newCommandSource(cmd, contracts.OriginKernel)
}

// NewJournalSource runs journalctl over the kernel transport for the
// given window (journalctl --since syntax, e.g. "24 hours ago").
func NewJournalSource(since string) (Source, error) {
	cmd := exec.Command("journalctl", "-k", "--since", since, "-o", "short-iso", "--no-pager")
	return newCommandSource(cmd, contracts.OriginJournal)
}

// commandSource streams a subprocess's stdout through ReaderSource and
// reaps the process on Close.
type commandSource struct {
	*ReaderSource
	cmd *exec.Cmd
}

func newCommandSource(cmd *exec.Cmd, origin contracts.LogOrigin) (Source, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return &commandSource{
		ReaderSource: NewReaderSource(stdout, origin),
		cmd:          cmd,
	}, nil
}

// Close reaps the subprocess. A non-zero exit after a complete read is
// not an error worth surfacing; the lines already flowed.
func (s *commandSource) Close() error {
	_ = s.ReaderSource.Close()
	if err := s.cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return err
	}
	return nil
}
