package uistate

import (
	"image"
	"sync"
	"time"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/ocr"
)

// regionReader returns canned text per screen rectangle and counts reads.
type regionReader struct {
	mu    sync.Mutex
	texts map[image.Rectangle]string
	reads map[image.Rectangle]int
}

func newRegionReader() *regionReader {
	return &regionReader{texts: map[image.Rectangle]string{}, reads: map[image.Rectangle]int{}}
}

func (r *regionReader) set(fb capture.FrameBuffer, reg Region, text string) *regionReader {
	r.mu.Lock()
	r.texts[reg.Rect(fb)] = text
	r.mu.Unlock()
	return r
}

func (r *regionReader) Read(_ capture.FrameBuffer, rect image.Rectangle, _ ocr.Options) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[rect]++
	return r.texts[rect]
}

func (r *regionReader) readsOf(fb capture.FrameBuffer, reg Region) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[reg.Rect(fb)]
}

func screen() capture.FrameBuffer {
	return capture.FromRGBA(image.NewRGBA(image.Rect(0, 0, 1920, 1080)), image.Point{}, time.Time{})
}

func defaultStore() *catalog.Store {
	c, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	return catalog.NewStore(c)
}
