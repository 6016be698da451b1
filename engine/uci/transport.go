package uci

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
)

// transport is the byte conduit to the engine. It exists so tests can run
// the client against a scripted channel instead of a subprocess.
type transport interface {
	// Start launches the channel. Incoming output is delivered to onLine
	// (possibly several newline-separated lines per call); a channel-level
	// failure is reported once to onErr.
	Start(onLine func(string), onErr func(error)) error
	Send(line string) error
	Close() error
}

// procTransport runs the engine as a subprocess, writing commands to its
// stdin and reading responses from its stdout. Stderr is discarded so a
// chatty engine cannot block.
type procTransport struct {
	path string
	args []string

	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func newProcTransport(path string, args []string) *procTransport {
	return &procTransport{path: path, args: args}
}

func (t *procTransport) Start(onLine func(string), onErr func(error)) error {
	cmd := exec.Command(t.path, t.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", t.path, err)
	}
	t.cmd = cmd
	t.stdin = stdin

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			onLine(scanner.Text())
		}
		err := scanner.Err()
		if err == nil {
			err = fmt.Errorf("engine closed its output")
		}
		onErr(err)
	}()
	return nil
}

func (t *procTransport) Send(line string) error {
	if t.stdin == nil {
		return fmt.Errorf("transport not started")
	}
	_, err := fmt.Fprintf(t.stdin, "%s\n", line)
	return err
}

func (t *procTransport) Close() error {
	if t.stdin != nil {
		t.stdin.Close()
	}
	if t.cmd != nil && t.cmd.Process != nil {
		t.cmd.Process.Kill()
		t.cmd.Wait()
	}
	return nil
}
