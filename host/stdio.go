package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const stdioMaxLine = 1 << 20

// Stdio exchanges newline-delimited payloads over a reader/writer pair,
// typically the process's stdin and stdout when embedded by a parent.
type Stdio struct {
	r        io.Reader
	dispatch Dispatch

	mu sync.Mutex
	w  io.Writer
}

// NewStdio creates a stdio link.
func NewStdio(r io.Reader, w io.Writer, dispatch Dispatch) *Stdio {
	return &Stdio{r: r, w: w, dispatch: dispatch}
}

// Run reads lines until EOF or ctx is cancelled. Blank lines are skipped.
func (s *Stdio) Run(ctx context.Context) error {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			errCh <- err
			close(lines)
		}()
		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, 64*1024), stdioMaxLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		err = sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errCh; err != nil {
					return fmt.Errorf("host: read stdio: %w", err)
				}
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" || s.dispatch == nil {
				continue
			}
			s.dispatch(line)
		}
	}
}

// SendMessage writes payload followed by a newline.
func (s *Stdio) SendMessage(_ context.Context, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrNotConnected
	}
	if _, err := io.WriteString(s.w, payload+"\n"); err != nil {
		return fmt.Errorf("host: write stdio: %w", err)
	}
	return nil
}
