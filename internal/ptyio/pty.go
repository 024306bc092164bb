// Package ptyio spawns a shell on a pseudoterminal and multiplexes its
// output onto a bounded, non-blocking channel the UI thread drains once
// per frame. It is adapted from the teacher's shell.PtySession: same
// creack/pty dependency, same shell-resolution order, same environment
// seeding, generalized to the spec's try_recv_all/resize/is_dead/cwd
// contract instead of a blocking io.Reader.
package ptyio

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"
)

var logger = log.New(os.Stderr, "ptyio: ", log.LstdFlags)

// readChunkSize matches the teacher's 4 KiB PTY read buffer.
const readChunkSize = 4096

// queueCapacity bounds the reader->UI channel at ~1 MiB (256 * 4 KiB).
const queueCapacity = 256

// Options configures a spawned PTY session.
type Options struct {
	Cols, Rows uint16
	Shell      string // overrides $SHELL / /etc/passwd lookup when set
	Cwd        string // optional; empty means "no cwd override"
	Env        map[string]string
}

// Session is a spawned shell connected to a pseudoterminal.
type Session struct {
	cmd    *exec.Cmd
	master *os.File

	out chan []byte

	writeMu sync.Mutex
	exited  atomic.Bool

	cwdHint string
}

// Spawn starts the user's shell on a new PTY sized (opts.Cols, opts.Rows).
func Spawn(opts Options) (*Session, error) {
	shellPath := resolveShell(opts.Shell)

	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("ptyio: resolve current user: %w", err)
	}

	env := baseEnv(u, shellPath)
	for k, v := range opts.Env {
		env = append(env, k+"="+v)
	}

	cmd := exec.Command(shellPath, "-l")
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	} else {
		cmd.Dir = u.HomeDir
	}

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSpawnFailed, shellPath, err)
	}

	s := &Session{
		cmd:    cmd,
		master: master,
		out:    make(chan []byte, queueCapacity),
	}

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

func (s *Session) readLoop() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := s.master.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.out <- chunk // backpressure: blocks until the UI drains a frame
		}
		if err != nil {
			close(s.out)
			return
		}
	}
}

func (s *Session) waitLoop() {
	_ = s.cmd.Wait()
	s.exited.Store(true)
}

// Write forwards bytes to the PTY master.
func (s *Session) Write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.master.Write(data)
	return err
}

// TryRecvAll drains every chunk currently queued without blocking.
func (s *Session) TryRecvAll() [][]byte {
	var chunks [][]byte
	for {
		select {
		case chunk, ok := <-s.out:
			if !ok {
				return chunks
			}
			chunks = append(chunks, chunk)
		default:
			return chunks
		}
	}
}

// Resize sets the PTY window size.
func (s *Session) Resize(cols, rows uint16) error {
	return pty.Setsize(s.master, &pty.Winsize{Cols: cols, Rows: rows})
}

// IsDead performs a non-blocking reap check of the child process.
func (s *Session) IsDead() bool {
	return s.exited.Load()
}

// Cwd makes a best-effort attempt to introspect the child's current
// working directory (Linux: /proc/<pid>/cwd). Returns "" when
// unavailable, matching the spec's resolved open question: spawn with no
// cwd override when a platform has no equivalent introspection.
func (s *Session) Cwd() string {
	if s.cmd.Process == nil {
		return ""
	}
	link := fmt.Sprintf("/proc/%d/cwd", s.cmd.Process.Pid)
	target, err := os.Readlink(link)
	if err != nil {
		return ""
	}
	return target
}

// Close sends SIGHUP to the shell and closes the master side. It does
// not kill the child or wait for it to exit.
func (s *Session) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(syscall.SIGHUP)
	}
	err := s.master.Close()
	return err
}

func resolveShell(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	if u, err := user.Current(); err == nil {
		if shell := shellFromPasswd(u.Username); shell != "" {
			if _, err := os.Stat(shell); err == nil {
				return shell
			}
		}
	}
	for _, candidate := range []string{"/bin/bash", "/usr/bin/bash", "/bin/zsh", "/usr/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "/bin/sh"
}

func shellFromPasswd(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}

func baseEnv(u *user.User, shellPath string) []string {
	env := []string{
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
		"PATH=" + firstNonEmpty(os.Getenv("PATH"), "/usr/local/bin:/usr/bin:/bin"),
		"HOME=" + u.HomeDir,
		"USER=" + u.Username,
		"LOGNAME=" + u.Username,
		"SHELL=" + shellPath,
	}
	return env
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ErrSpawnFailed is returned (wrapped) when the underlying pty package
// fails to allocate or start the child process.
var ErrSpawnFailed = errors.New("ptyio: spawn failed")
