//go:build !windows

package capture

import "errors"

// NewGDISource is only available on Windows.
func NewGDISource() (Source, error) {
	return nil, errors.New("capture: gdi backend requires windows")
}
