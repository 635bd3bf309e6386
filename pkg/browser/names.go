package browser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// SanitizeName converts an arbitrary scenario or step name into a safe
// filename component: lowercase, non-alphanumerics collapsed to single
// underscores, trimmed.
func SanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = unsafeNameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// TraceFileName builds a collision-free trace archive name from a scenario
// name, the worker's process id, and a millisecond timestamp. Two workers
// running identically named scenarios produce distinct names.
func TraceFileName(scenario string, pid int, at time.Time) string {
	return fmt.Sprintf("%s_%d_%d.zip", SanitizeName(scenario), pid, at.UnixMilli())
}

// ScreenshotFileName builds a screenshot name with the same collision
// guarantees as TraceFileName.
func ScreenshotFileName(name string, pid int, at time.Time) string {
	return fmt.Sprintf("%s_%d_%d.png", SanitizeName(name), pid, at.UnixMilli())
}
