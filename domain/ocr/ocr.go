// Package ocr prepares frame regions for text recognition and wraps the
// external engine so its failures degrade to empty text.
package ocr

import (
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/failure"
)

// PSM is a Tesseract page segmentation mode.
type PSM int

const (
	PSMAuto         PSM = 3
	PSMSingleColumn PSM = 4
	PSMSingleBlock  PSM = 6
	PSMSingleLine   PSM = 7
	PSMSparse       PSM = 11
)

// Character whitelists for the different screen strips.
const (
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ "
	Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz '-"
	Digits  = "0123456789/"
	Item    = Letters + "0123456789.|"
)

// Options select the whitelist and segmentation for one pass.
type Options struct {
	Whitelist string
	PSM       PSM
	// Scale upsamples the crop before binarization; 0 means 2.
	Scale float64
}

// Engine is the text-from-pixels oracle. It receives a binarized image with
// dark text on white and returns raw UTF-8 text with newlines preserved.
type Engine interface {
	Recognize(img *image.Gray, opts Options) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(img *image.Gray, opts Options) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(img *image.Gray, opts Options) (string, error) { return f(img, opts) }

// TextReader reads the text in a frame region.
type TextReader interface {
	Read(fb capture.FrameBuffer, r image.Rectangle, opts Options) string
}

// Reader preprocesses regions and calls the engine. Engine failures are
// logged and read as empty text.
type Reader struct {
	engine Engine
	logger *slog.Logger

	calls    atomic.Int64
	failures atomic.Int64
}

var _ TextReader = (*Reader)(nil)

// NewReader wraps engine. A nil engine reads nothing.
func NewReader(engine Engine, logger *slog.Logger) *Reader {
	return &Reader{engine: engine, logger: logger}
}

// Read returns the text in region r of fb, or "" when nothing could be read.
func (rd *Reader) Read(fb capture.FrameBuffer, r image.Rectangle, opts Options) string {
	text, err := rd.ReadErr(fb, r, opts)
	if err != nil && failure.IsExternal(err) && rd.logger != nil {
		rd.logger.Warn("ocr failed", "region", r.String(), "psm", int(opts.PSM), "error", err)
	}
	return text
}

// ReadErr is Read with the failure exposed.
func (rd *Reader) ReadErr(fb capture.FrameBuffer, r image.Rectangle, opts Options) (string, error) {
	const op = "ocr"
	if rd == nil || rd.engine == nil {
		return "", failure.External(op, errNoEngine)
	}
	img := Prepare(fb, r, opts.Scale)
	if img == nil {
		return "", failure.NotFound(op, "empty region")
	}
	rd.calls.Add(1)
	text, err := rd.engine.Recognize(img, opts)
	if err != nil {
		rd.failures.Add(1)
		return "", failure.External(op, err)
	}
	return text, nil
}

// Stats returns engine calls and failures so far.
func (rd *Reader) Stats() (calls, failures int64) { return rd.calls.Load(), rd.failures.Load() }

type constError string

func (e constError) Error() string { return string(e) }

const errNoEngine = constError("no ocr engine configured")
