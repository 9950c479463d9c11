//go:build !windows

package action

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("action: not supported on this platform")

// PointerPosition is unavailable off Windows.
func PointerPosition() (image.Point, bool) { return image.Point{}, false }

// ListWindows is unavailable off Windows.
func ListWindows() ([]string, error) { return nil, errUnsupported }

// ForegroundWindowTitle is unavailable off Windows.
func ForegroundWindowTitle() (string, error) { return "", errUnsupported }
