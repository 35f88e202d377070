package sink

import (
	"context"
	"os"
	"os/exec"
	"sync"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/logger"
	"github.com/kart-io/notifyguard/notifyerr"
)

// Sound is the non-HTTP terminal-bell / local-command sink: it rings the
// terminal bell on standard error, or spawns a configured program instead
// when the optional sound-command capability is enabled.
type Sound struct {
	argv           []string
	commandEnabled bool
	logger         logger.Interface
	stderr         *os.File
}

// soundCommandWarnOnce makes the disabled-command warning once per process,
// shared by every Sound value.
var soundCommandWarnOnce sync.Once

// SoundOption configures optional Sound behavior.
type SoundOption func(*Sound)

// WithSoundCommand configures a program (argv[0]) and arguments to spawn
// instead of ringing the bell. enabled gates whether the command actually
// runs; when false, configuring an argv still falls back to the bell, with
// a once-per-process warning logged first.
func WithSoundCommand(argv []string, enabled bool) SoundOption {
	return func(s *Sound) {
		s.argv = argv
		s.commandEnabled = enabled
	}
}

func WithSoundLogger(l logger.Interface) SoundOption {
	return func(s *Sound) { s.logger = l }
}

func NewSound(opts ...SoundOption) (*Sound, error) {
	s := &Sound{logger: logger.Default, stderr: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.argv) > 0 && s.argv[0] == "" {
		return nil, notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidConfig, "sound: program must not be empty")
	}
	return s, nil
}

func (s *Sound) Name() string { return "sound" }

func (s *Sound) Send(ctx context.Context, e event.Event) error {
	if len(s.argv) > 0 {
		if s.commandEnabled {
			return s.runCommand(ctx)
		}
		soundCommandWarnOnce.Do(func() {
			s.logger.Warn(ctx, "sound: command configured but the sound-command capability is disabled, falling back to bell")
		})
	}
	return s.ringBell(e.Severity)
}

func (s *Sound) runCommand(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	if err := cmd.Run(); err != nil {
		return notifyerr.Wrap(err, notifyerr.CategoryTransport, notifyerr.CodeRequest, "sound: command failed")
	}
	return nil
}

func (s *Sound) ringBell(sev event.Severity) error {
	rings := 1
	if sev == event.Error {
		rings = 2
	}
	for i := 0; i < rings; i++ {
		if _, err := s.stderr.WriteString("\a"); err != nil {
			return notifyerr.Wrap(err, notifyerr.CategoryTransport, notifyerr.CodeRequest, "sound: failed to write bell")
		}
	}
	return nil
}
