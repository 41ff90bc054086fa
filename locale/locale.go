// Package locale defines the closed set of locales a shell can inject into
// a child process environment.
package locale

import (
	"errors"
	"fmt"
)

// Locale is a symbolic language/region identifier.
type Locale int

const (
	English Locale = iota
	Italian
)

// ErrUnknown is matched by errors returned from Parse for unrecognised names.
var ErrUnknown = errors.New("unknown locale")

// UnknownError reports a name that is not a Locale variant.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown locale %q", e.Name)
}

func (e *UnknownError) Is(target error) bool {
	return target == ErrUnknown
}

// All returns every variant in declaration order.
func All() []Locale {
	return []Locale{English, Italian}
}

// String returns the symbolic name of l.
func (l Locale) String() string {
	switch l {
	case English:
		return "english"
	case Italian:
		return "italian"
	}
	return fmt.Sprintf("Locale(%d)", int(l))
}

// Tag returns the platform locale string placed in the environment.
// Every variant must have a case here; TestTagCoversAllLocales enforces it.
func (l Locale) Tag() string {
	switch l {
	case English:
		return "en_US"
	case Italian:
		return "it_IT"
	}
	panic(fmt.Sprintf("locale: no tag for %s", l))
}

// Parse returns the Locale whose symbolic name is exactly name.
func Parse(name string) (Locale, error) {
	for _, l := range All() {
		if l.String() == name {
			return l, nil
		}
	}
	return English, &UnknownError{Name: name}
}

func (l Locale) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Locale) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
