package bootstrap

import (
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Options configures the one-shot sidecar launch.
type Options struct {
	// Command is the program to start, Args its arguments.
	Command string
	Args    []string

	// Dir is the child's working directory. Empty means the child
	// inherits ours.
	Dir string

	// Delay is how long the triggering request is held after the spawn
	// so the sidecar has a chance to come up.
	Delay time.Duration

	// ProbeURL, when set, is a websocket endpoint dialed once after the
	// delay to report whether the sidecar answered. Log-only; it never
	// gates a response.
	ProbeURL string

	// Start replaces the exec-based spawn when set.
	Start func() error
}

// Launcher starts the sidecar process at most once per server lifetime.
// The child is not supervised afterward: no restart, no exit-code check.
type Launcher struct {
	once sync.Once
	opts Options
}

func New(opts Options) *Launcher {
	l := &Launcher{opts: opts}
	if l.opts.Start == nil {
		l.opts.Start = l.spawn
	}
	return l
}

// Ensure fires the sidecar launch on the first call and holds that caller
// for the configured delay. Callers racing the first block until it
// finishes; everyone after that returns immediately. The spawn itself runs
// on its own goroutine and is never awaited.
func (l *Launcher) Ensure() {
	l.once.Do(func() {
		go func() {
			if err := l.opts.Start(); err != nil {
				// Not surfaced to clients; anything that needs
				// the sidecar fails downstream instead.
				log.Printf("bootstrap: launch %s: %v", l.opts.Command, err)
			}
		}()
		time.Sleep(l.opts.Delay)
		if l.opts.ProbeURL != "" {
			go l.probe()
		}
	})
}

func (l *Launcher) spawn() error {
	cmd := exec.Command(l.opts.Command, l.opts.Args...)
	cmd.Dir = l.opts.Dir
	if err := cmd.Start(); err != nil {
		return err
	}
	log.Printf("bootstrap: launched %s pid=%d", l.opts.Command, cmd.Process.Pid)
	// Reap in the background so an early exit leaves no zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// probe dials the sidecar's websocket endpoint once and logs the outcome.
// The fixed delay stays the readiness story; this only reports.
func (l *Launcher) probe() {
	conn, _, err := websocket.DefaultDialer.Dial(l.opts.ProbeURL, nil)
	if err != nil {
		log.Printf("bootstrap: sidecar not answering at %s: %v", l.opts.ProbeURL, err)
		return
	}
	_ = conn.Close()
	log.Printf("bootstrap: sidecar ready at %s", l.opts.ProbeURL)
}
