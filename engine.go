package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/remeh/sizedwaitgroup"
	"github.com/sqweek/dialog"
)

// maxLineSize bounds a single engine output line. The initial map can be
// printed on one line.
const maxLineSize = 16 << 20

var errNoEngine = errors.New("no engine configured")

// engineArgs builds the engine command line from settings.
func engineArgs(s Settings) []string {
	args := []string{"--viewer"}
	if s.Seed != nil {
		args = append(args, "-s", strconv.FormatInt(*s.Seed, 10))
	}
	if s.Size != nil {
		size := strconv.Itoa(*s.Size)
		args = append(args, "--width", size, "--height", size)
	}
	return append(args, s.Bots...)
}

// startEngine launches the engine and returns its running command with
// stdout and stderr pipes attached.
func startEngine(ctx context.Context, s Settings) (*exec.Cmd, io.Reader, io.Reader, error) {
	if s.Engine == "" {
		return nil, nil, nil, errNoEngine
	}
	cmd := exec.CommandContext(ctx, s.Engine, engineArgs(s)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("start engine %s: %w", s.Engine, err)
	}
	logDebug("engine started: %s %v (pid %d)", s.Engine, cmd.Args[1:], cmd.Process.Pid)
	return cmd, stdout, stderr, nil
}

// pumpLines hands each line read from r to recv until r is exhausted.
func pumpLines(r io.Reader, recv func(string)) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		recv(sc.Text())
		n++
	}
	return n, sc.Err()
}

// runEngine spawns the engine and feeds its stdout into v until the engine
// exits. Engine stderr goes to the debug log. The outcome of the spawn
// itself is sent on started.
func runEngine(ctx context.Context, s Settings, v *Viewer, started chan<- error) error {
	cmd, stdout, stderr, err := startEngine(ctx, s)
	started <- err
	if err != nil {
		return nil
	}
	defer v.EndOfInput()

	swg := sizedwaitgroup.New(2)
	swg.Add()
	go func() {
		defer swg.Done()
		n, err := pumpLines(stdout, v.Receive)
		if err != nil {
			logError("read engine output: %v", err)
		}
		logDebug("engine stdout closed after %d lines", n)
	}()
	swg.Add()
	go func() {
		defer swg.Done()
		if _, err := pumpLines(stderr, func(line string) { logDebug("engine: %s", line) }); err != nil {
			logDebug("read engine stderr: %v", err)
		}
	}()
	swg.Wait()

	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("engine exited: %w", err)
	}
	return nil
}

// attachInput feeds lines from a file, or stdin when path is "-", into v.
func attachInput(path string, v *Viewer) error {
	defer v.EndOfInput()
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("attach: %w", err)
		}
		defer f.Close()
		r = f
	}
	n, err := pumpLines(r, v.Receive)
	logDebug("attached input ended after %d lines", n)
	if err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	return nil
}

// reportStartupError logs why decoding cannot begin and, when a window would
// have been shown, raises a native error dialog once.
func reportStartupError(err error, headless bool) {
	logError("cannot start viewer: %v", err)
	if headless {
		return
	}
	dialog.Message("The game engine could not be started:\n\n%v", err).Title("haliteview").Error()
}
