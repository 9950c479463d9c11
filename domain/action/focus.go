// Package action reads pointer and window state from the operating system.
package action

import "strings"

// Focused reports whether the foreground window title contains want
// (case-insensitive). An empty want always matches; so does a platform
// that cannot report the foreground window.
func Focused(want string, foreground func() (string, error)) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	title, err := foreground()
	if err != nil {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(want))
}
