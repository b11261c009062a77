package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// RunNonBlocking executes command through the shell and relays the child's
// stdout and stderr line by line to the parent's respective streams as each
// becomes readable, preserving interleaving as observed from the child. It
// returns the child's exit code; a child killed by a signal maps to
// 128+signal.
func RunNonBlocking(command string) (int, error) {
	cmd := exec.Command("sh", "-c", command)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start command: %w", err)
	}

	relayStreams(stdout.(*os.File), stderr.(*os.File))

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				return 128 + int(ws.Signal()), nil
			}
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("wait: %w", err)
	}
	return 0, nil
}

// relayStream is one child stream registered in the readiness loop.
type relayStream struct {
	src *os.File
	dst *os.File
	buf []byte // trailing partial line carried between readiness events
}

// relayStreams runs a single-threaded readiness loop over both child
// streams. One read is performed per readiness event; a stream is
// deregistered on EOF or read failure, and the loop ends when both are
// gone.
func relayStreams(stdout, stderr *os.File) {
	streams := []*relayStream{
		{src: stdout, dst: os.Stdout},
		{src: stderr, dst: os.Stderr},
	}
	for {
		fds := make([]unix.PollFd, 0, len(streams))
		live := make([]*relayStream, 0, len(streams))
		for _, s := range streams {
			if s.src == nil {
				continue
			}
			fds = append(fds, unix.PollFd{Fd: int32(s.src.Fd()), Events: unix.POLLIN})
			live = append(live, s)
		}
		if len(fds) == 0 {
			return
		}
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			for _, s := range live {
				s.finish()
			}
			return
		}
		if n == 0 {
			continue
		}
		for i := range fds {
			if fds[i].Revents != 0 {
				live[i].relayOnce()
			}
		}
	}
}

// relayOnce performs the single read this readiness event is entitled to,
// forwarding any completed lines before yielding back to the loop.
func (s *relayStream) relayOnce() {
	chunk := make([]byte, 4096)
	n, err := s.src.Read(chunk)
	if n > 0 {
		s.buf = append(s.buf, chunk[:n]...)
		s.forwardLines()
	}
	if err != nil {
		s.finish()
	}
}

func (s *relayStream) forwardLines() {
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			return
		}
		s.dst.Write(s.buf[:i+1])
		s.buf = s.buf[i+1:]
	}
}

// finish flushes any unterminated final line and deregisters the stream.
func (s *relayStream) finish() {
	if len(s.buf) > 0 {
		s.dst.Write(s.buf)
		s.buf = nil
	}
	s.src = nil
}
