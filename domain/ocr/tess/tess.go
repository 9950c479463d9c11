// Package tess adapts the Tesseract OCR engine (via gosseract) to ocr.Engine.
package tess

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/soocke/loot-lens-go/domain/ocr"
)

// Engine is a Tesseract client. The client is not safe for concurrent use,
// so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

var _ ocr.Engine = (*Engine)(nil)

// New creates an engine for the given language (e.g. "eng").
func New(language string) (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	// Item and location names are not dictionary words.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Recognize runs Tesseract over img with the whitelist and PSM of opts.
func (e *Engine) Recognize(img *image.Gray, opts ocr.Options) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", fmt.Errorf("engine closed")
	}
	psm := opts.PSM
	if psm == 0 {
		psm = ocr.PSMSingleBlock
	}
	if err := e.client.SetPageSegMode(gosseract.PageSegMode(psm)); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(opts.Whitelist); err != nil && opts.Whitelist != "" {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
