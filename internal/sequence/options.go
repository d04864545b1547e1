package sequence

// Default padding applied around a player's life, in seconds.
const (
	DefaultSpawnPadSeconds = 10
	DefaultDeathPadSeconds = 3
)

// Logger receives builder decisions. ipc.Output satisfies it.
type Logger interface {
	Log(level, msg string)
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

type settings struct {
	spawnPad int
	deathPad int
	logger   Logger
}

// Option configures Build and Detect.
type Option func(*settings)

// WithSpawnPad sets how many seconds after a spawn the window opens.
func WithSpawnPad(seconds int) Option {
	return func(s *settings) {
		s.spawnPad = seconds
	}
}

// WithDeathPad sets how many seconds after a death the window closes.
func WithDeathPad(seconds int) Option {
	return func(s *settings) {
		s.deathPad = seconds
	}
}

// WithLogger routes builder decisions to l.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		spawnPad: DefaultSpawnPadSeconds,
		deathPad: DefaultDeathPadSeconds,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
