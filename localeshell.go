// Package localeshell runs shell commands with a locale variable injected
// into the child environment.
//
// The functions in this package operate on a default *shell.Shell created
// at init with the English locale and the default key table. Programs that
// need their own configuration should construct a shell.Shell directly.
package localeshell

import (
	"context"

	"github.com/deixis/localeshell/locale"
	"github.com/deixis/localeshell/shell"
)

// Version is the release version of localeshell.
const Version = "v0.1.0"

var defaultShell = shell.New()

// Default returns the shared default shell.
func Default() *shell.Shell {
	return defaultShell
}

// Run executes command on the default shell.
func Run(ctx context.Context, command string, opts ...shell.RunOption) (*shell.Result, error) {
	return defaultShell.Run(ctx, command, opts...)
}

// SetLocale sets the locale of the default shell by symbolic name.
func SetLocale(name string) error {
	return defaultShell.SetLocale(name)
}

// Locale returns the locale of the default shell.
func Locale() locale.Locale {
	return defaultShell.Locale()
}
