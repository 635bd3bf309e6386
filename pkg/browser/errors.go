package browser

import (
	"errors"
	"strings"
)

// Sentinel errors for handle access before the corresponding create step.
// These are programmer errors: callers must follow the strict creation
// order Browser -> Context -> Page and must not touch a torn-down handle.
var (
	ErrBrowserNotInitialized = errors.New("browser not initialized: call Launch first")
	ErrContextNotInitialized = errors.New("browser context not initialized: call CreateContext first")
	ErrPageNotInitialized    = errors.New("page not initialized: call CreatePage first")
)

// IsTimeout reports whether err looks like a Playwright timeout. The driver
// does not export a typed timeout error, so this falls back to message
// matching, the same way the rest of the ecosystem does.
func IsTimeout(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Timeout")
}
