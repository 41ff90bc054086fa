// Package shell runs command lines as child processes with a locale
// variable injected into their environment.
//
// A Shell carries the active locale and the table of configuration keys
// naming the environment variables it manages. Each call to Run spawns
// exactly one process, waits for it under a timeout and returns its exit
// status and captured output.
package shell

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/deixis/localeshell/locale"
	"github.com/sirupsen/logrus"
)

// LocaleKey is the configuration key naming the locale environment variable.
const LocaleKey = "LOCALE_KEY"

// DefaultTimeout bounds a Run when no Timeout option is given.
const DefaultTimeout = 60 * time.Second

// DefaultKeys returns a fresh copy of the built-in key table.
func DefaultKeys() map[string]string {
	return map[string]string{
		LocaleKey: "LC_ALL",
	}
}

// Shell runs commands with a configurable locale.
//
// The locale may be changed concurrently with Run; the key table is fixed
// at construction.
type Shell struct {
	mu     sync.RWMutex
	locale locale.Locale

	keys    map[string]string
	timeout time.Duration
	log     logrus.FieldLogger
}

// Option configures a Shell.
type Option func(*Shell)

// WithLocale sets the initial locale. The default is locale.English.
func WithLocale(l locale.Locale) Option {
	return func(s *Shell) {
		s.locale = l
	}
}

// WithKeys merges keys over the default key table.
func WithKeys(keys map[string]string) Option {
	return func(s *Shell) {
		maps.Copy(s.keys, keys)
	}
}

// WithLogger sets the logger used for command traces.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Shell) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDefaultTimeout changes the timeout applied when Run is called
// without a Timeout option.
func WithDefaultTimeout(d time.Duration) Option {
	return func(s *Shell) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Shell.
func New(opts ...Option) *Shell {
	s := &Shell{
		locale:  locale.English,
		keys:    DefaultKeys(),
		timeout: DefaultTimeout,
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Locale returns the current locale.
func (s *Shell) Locale() locale.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// SetLocale switches to the locale with the given symbolic name.
// An unknown name leaves the current locale unchanged.
func (s *Shell) SetLocale(name string) error {
	s.log.Debugf("Setting locale to %s", name)
	l, err := locale.Parse(name)
	if err != nil {
		return err
	}
	s.SetLocaleValue(l)
	return nil
}

// SetLocaleValue switches to l.
func (s *Shell) SetLocaleValue(l locale.Locale) {
	s.mu.Lock()
	s.locale = l
	s.mu.Unlock()
}

// Keys returns a copy of the key table.
func (s *Shell) Keys() map[string]string {
	return maps.Clone(s.keys)
}

// LocaleEnv returns the environment variable name and value Run injects
// when the variable is absent. The name is empty when the key table maps
// LocaleKey to nothing.
func (s *Shell) LocaleEnv() (name, value string) {
	return s.keys[LocaleKey], s.Locale().Tag()
}

func (s *Shell) String() string {
	return fmt.Sprintf("Shell(locale=%s, keys=%v)", s.Locale(), s.keys)
}
