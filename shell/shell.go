// Package shell provides a minimal OS-shell/window abstraction: a blocking
// main loop and a termination request, nothing else.
package shell

import "sync"

// Shell is the main-loop surface. Run blocks until Quit is called; Quit may
// be called from any goroutine, any number of times, before or after Run.
type Shell interface {
	Run() error
	Quit()
}

// New returns a Shell whose loop simply parks until termination.
func New() Shell {
	return &loopShell{quit: make(chan struct{})}
}

type loopShell struct {
	quit chan struct{}
	once sync.Once
}

func (s *loopShell) Run() error {
	<-s.quit
	return nil
}

func (s *loopShell) Quit() {
	s.once.Do(func() { close(s.quit) })
}
