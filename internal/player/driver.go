package player

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/shared"
)

// Sound is a single live audio stream.
type Sound interface {
	TogglePause()
	Paused() bool
	SetVolume(volume int)
	SetMuted(muted bool)
	Seek(seconds int)
	Close() error
}

// Driver creates sound handles. onFinish fires once when the stream
// ends on its own, never after Close.
type Driver interface {
	NewSound(url, format string, onFinish func()) (Sound, error)
}

// ExecDriver plays streams by spawning an external player process,
// mpv by default.
type ExecDriver struct {
	logger  *log.Logger
	command string
	args    []string
	volume  int
}

// NewExecDriver builds a driver from the player configuration.
func NewExecDriver(logger *log.Logger, config *shared.PlayerConfig) (*ExecDriver, error) {
	if config.Command == "" {
		return nil, fmt.Errorf("%w: player command is required", shared.ErrNoSoundDriver)
	}
	if _, err := exec.LookPath(config.Command); err != nil {
		return nil, fmt.Errorf("%w: %s not found", shared.ErrNoSoundDriver, config.Command)
	}
	return &ExecDriver{
		logger:  logger,
		command: config.Command,
		args:    config.Args,
		volume:  config.Volume,
	}, nil
}

// NewSound spawns the player process for the stream URL.
func (d *ExecDriver) NewSound(url, format string, onFinish func()) (Sound, error) {
	args := append(append([]string{}, d.args...), url)
	cmd := exec.Command(d.command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", d.command, err)
	}
	d.logger.Debug("spawned player", "command", d.command, "format", format, "pid", cmd.Process.Pid)

	s := &execSound{logger: d.logger, cmd: cmd}
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		closed := s.closed
		s.done = true
		s.mu.Unlock()
		if closed {
			return
		}
		if err != nil {
			d.logger.Warn("player process exited", "err", err)
		}
		if onFinish != nil {
			onFinish()
		}
	}()
	return s, nil
}

type execSound struct {
	logger *log.Logger
	cmd    *exec.Cmd

	mu     sync.Mutex
	paused bool
	closed bool
	done   bool
}

// TogglePause suspends or resumes the player process.
func (s *execSound) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.done {
		return
	}
	sig := syscall.SIGSTOP
	if s.paused {
		sig = syscall.SIGCONT
	}
	if err := s.cmd.Process.Signal(sig); err != nil {
		s.logger.Warn("failed to signal player process", "err", err)
		return
	}
	s.paused = !s.paused
}

func (s *execSound) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetVolume is a no-op: the external player owns its own volume.
func (s *execSound) SetVolume(volume int) {}

// Seek is a no-op: the external player owns its own transport.
func (s *execSound) Seek(seconds int) {}

// SetMuted suspends the process while muted.
func (s *execSound) SetMuted(muted bool) {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()
	if muted != paused {
		s.TogglePause()
	}
}

// Close kills the player process. Idempotent.
func (s *execSound) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	done := s.done
	s.mu.Unlock()

	if done {
		return nil
	}
	if err := s.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill player process: %w", err)
	}
	return nil
}
