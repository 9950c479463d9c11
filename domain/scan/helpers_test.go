package scan

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/iconhash"
	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/textmatch"
	"github.com/soocke/loot-lens-go/domain/uistate"
)

var (
	background = color.RGBA{22, 24, 28, 255}
	cream      = color.RGBA{230, 222, 200, 255}
	white      = color.RGBA{255, 255, 255, 255}
)

func gray(v uint8) color.RGBA { return color.RGBA{v, v, v, 255} }

func screenImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	fillRect(img, img.Bounds(), background)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// slotIcon draws a mid-grey disc with an off-centre bar on a dark slot.
func slotIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fillRect(img, img.Bounds(), gray(30))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			dx, dy := x-32, y-34
			if dx*dx+dy*dy <= 20*20 {
				img.SetRGBA(x, y, gray(170))
			}
			if x >= 40 && x < 56 && y >= 6 && y < 16 {
				img.SetRGBA(x, y, gray(140))
			}
		}
	}
	return img
}

// decoyIcon is a set of horizontal stripes. It hashes to zero, so the index
// drops it and no featureless window can match it.
func decoyIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		c := gray(40)
		if (y/8)%2 == 0 {
			c = gray(160)
		}
		fillRect(img, image.Rect(0, y, 64, y+1), c)
	}
	return img
}

// drawHighlightedIcon pastes icon with its top-left at at and surrounds it
// with a white selection frame.
func drawHighlightedIcon(dst *image.RGBA, icon *image.RGBA, at image.Point) image.Rectangle {
	r := image.Rectangle{Min: at, Max: at.Add(icon.Bounds().Size())}
	outer := image.Rectangle{Min: r.Min.Sub(image.Pt(highlightBorder, highlightBorder)), Max: r.Max.Add(image.Pt(highlightBorder, highlightBorder))}
	fillRect(dst, outer, white)
	drawIcon(dst, icon, at)
	return r
}

func drawIcon(dst *image.RGBA, icon *image.RGBA, at image.Point) {
	b := icon.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetRGBA(at.X+x, at.Y+y, icon.RGBAAt(x, y))
		}
	}
}

// psmReader returns canned text per page segmentation mode.
type psmReader struct {
	mu    sync.Mutex
	texts map[ocr.PSM]string
	panic bool
}

func (r *psmReader) Read(_ capture.FrameBuffer, _ image.Rectangle, opts ocr.Options) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panic {
		panic("engine exploded")
	}
	return r.texts[opts.PSM]
}

// regionReader returns canned text per screen rectangle and counts reads.
type regionReader struct {
	mu    sync.Mutex
	texts map[image.Rectangle]string
	reads map[image.Rectangle]int
}

func newRegionReader() *regionReader {
	return &regionReader{texts: map[image.Rectangle]string{}, reads: map[image.Rectangle]int{}}
}

func (r *regionReader) set(reg uistate.Region, text string) {
	r.mu.Lock()
	r.texts[reg.Rect(fullFrame())] = text
	r.mu.Unlock()
}

func (r *regionReader) clear() {
	r.mu.Lock()
	r.texts = map[image.Rectangle]string{}
	r.mu.Unlock()
}

func (r *regionReader) readsOf(reg uistate.Region) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[reg.Rect(fullFrame())]
}

func (r *regionReader) Read(_ capture.FrameBuffer, rect image.Rectangle, _ ocr.Options) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[rect]++
	return r.texts[rect]
}

func fullFrame() capture.FrameBuffer {
	return capture.FrameBuffer{Width: 1920, Height: 1080}
}

// recorder is a synchronous Publisher.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ev events.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.EventName() == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventName() == name {
			return r.events[i]
		}
	}
	return nil
}

// blockingSource holds the first capture until release is closed.
type blockingSource struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
	inner   capture.Source
}

func newBlockingSource(inner capture.Source) *blockingSource {
	return &blockingSource{started: make(chan struct{}), release: make(chan struct{}), inner: inner}
}

func (b *blockingSource) ScreenBounds() image.Rectangle { return b.inner.ScreenBounds() }

func (b *blockingSource) Capture(r image.Rectangle) (capture.FrameBuffer, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.inner.Capture(r)
}

type failingSource struct{}

func (failingSource) ScreenBounds() image.Rectangle { return image.Rect(0, 0, 1920, 1080) }

func (failingSource) Capture(image.Rectangle) (capture.FrameBuffer, error) {
	return capture.FrameBuffer{}, errDisplayGone
}

const errDisplayGone = constError("display gone")

func defaultStore(t *testing.T) *catalog.Store {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog.NewStore(c)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.FrameGate = false
	cfg.WorkbenchCooldownSeconds = 0
	cfg.BlueprintCooldownSeconds = 0
	cfg.TrackedCooldownSeconds = 0
	cfg.MapCooldownSeconds = 0
	return cfg
}

func iconIndex() *iconhash.Index {
	return iconhash.NewStaticIndex([]iconhash.Entry{
		{ID: "fabric", Hash: iconhash.Compute(decoyIcon())},
		{ID: "rusted_component", Hash: iconhash.Compute(slotIcon())},
	})
}

// newTestOrchestrator wires every collaborator against src and reader.
func newTestOrchestrator(t *testing.T, src capture.Source, reader ocr.TextReader, cfg *config.Config, pointer image.Point) (*Orchestrator, *recorder) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	store := defaultStore(t)
	matcher := textmatch.NewMatcher(store, cfg.MinMatchConfidence, 64, nil)
	loc := locate.NewLocalizer(locate.OptionsFrom(cfg), reader, nil)
	rec := &recorder{}
	o := New(Deps{
		Source:     src,
		Pointer:    func() (image.Point, bool) { return pointer, true },
		Reader:     reader,
		Matcher:    matcher,
		Icons:      iconIndex(),
		Catalog:    store,
		Classifier: uistate.NewClassifier(reader, store, nil),
		Extractor:  uistate.NewExtractor(reader, matcher, store, loc, nil),
		Sink:       rec,
		Config:     cfg,
	})
	return o, rec
}
