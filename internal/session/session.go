// Package session glues a PTY transport to a VT parser/grid: it is the
// per-pane unit the pane tree manager owns. It is adapted from the
// teacher's tab.Tab, generalized from a flat tab list to a tree leaf and
// from the teacher's blocking read loop to the spec's drain-per-frame
// model (the PTY reader still blocks on read in its own goroutine; the
// session only ever drains non-blockingly from the UI thread).
package session

import (
	"github.com/ravensplit/smoothterm/internal/ptyio"
	"github.com/ravensplit/smoothterm/internal/vtparser"
)

// Session is a single terminal: one PTY, one parser/grid pair.
type Session struct {
	Parser *vtparser.Parser
	pty    *ptyio.Session
}

// New spawns a shell on a new PTY and wires it to a fresh parser/grid of
// the given size.
func New(cols, rows int, opts ptyio.Options) (*Session, error) {
	opts.Cols = uint16(cols)
	opts.Rows = uint16(rows)
	p, err := ptyio.Spawn(opts)
	if err != nil {
		return nil, err
	}
	parser := vtparser.New(cols, rows)
	s := &Session{Parser: parser, pty: p}
	parser.SetResponseWriter(func(b []byte) { _ = s.pty.Write(b) })
	return s, nil
}

// Write forwards keystroke bytes to the PTY.
func (s *Session) Write(data []byte) error {
	return s.pty.Write(data)
}

// Drain pulls every currently queued PTY output chunk and feeds it
// through the parser, in order. Called once per frame from the UI
// thread; never blocks.
func (s *Session) Drain() {
	for _, chunk := range s.pty.TryRecvAll() {
		s.Parser.Process(chunk)
	}
}

// Resize resizes both the PTY and the grid/parser.
func (s *Session) Resize(cols, rows int) {
	s.Parser.Resize(cols, rows)
	_ = s.pty.Resize(uint16(cols), uint16(rows))
}

// IsDead reports whether the underlying shell process has exited.
func (s *Session) IsDead() bool {
	return s.pty.IsDead()
}

// Cwd returns the PTY child's best-effort current working directory.
func (s *Session) Cwd() string {
	if dir := s.Parser.WorkingDir(); dir != "" {
		return dir
	}
	return s.pty.Cwd()
}

// Close tears down the PTY; the reader goroutine exits once the channel
// peer observes the closed master.
func (s *Session) Close() error {
	return s.pty.Close()
}
