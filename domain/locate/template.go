package locate

import (
	"image"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// arrowRows is the player marker shape at 1×.
var arrowRows = []string{
	"....#....",
	"...###...",
	"..#####..",
	".#######.",
	"#########",
	"###.#.###",
	"##..#..##",
	"#...#...#",
	"....#....",
	"....#....",
	"....#....",
}

// boolTemplate is a boolean template with its on-pixel offsets.
type boolTemplate struct {
	W, H int
	on   []image.Point
}

func parseTemplate(rows []string) *boolTemplate {
	t := &boolTemplate{W: len(rows[0]), H: len(rows)}
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				t.on = append(t.on, image.Pt(x, y))
			}
		}
	}
	return t
}

var (
	arrowBase = parseTemplate(arrowRows)

	tmplCacheMu sync.RWMutex
	tmplByScale = map[int]*boolTemplate{}
)

// scaledArrow returns the arrow template resized by factor with nearest
// neighbour sampling. Results are cached by factor in hundredths.
func scaledArrow(factor float64) *boolTemplate {
	if factor <= 0 {
		return nil
	}
	key := int(math.Round(factor * 100))
	if key == 100 {
		return arrowBase
	}
	tmplCacheMu.RLock()
	t := tmplByScale[key]
	tmplCacheMu.RUnlock()
	if t != nil {
		return t
	}
	w := int(math.Round(float64(arrowBase.W) * factor))
	h := int(math.Round(float64(arrowBase.H) * factor))
	if w < 3 || h < 3 {
		return nil
	}
	grid := make([]bool, arrowBase.W*arrowBase.H)
	for _, p := range arrowBase.on {
		grid[p.Y*arrowBase.W+p.X] = true
	}
	t = &boolTemplate{W: w, H: h}
	for y := 0; y < h; y++ {
		sy := min(arrowBase.H-1, int(float64(y)/factor))
		for x := 0; x < w; x++ {
			sx := min(arrowBase.W-1, int(float64(x)/factor))
			if grid[sy*arrowBase.W+sx] {
				t.on = append(t.on, image.Pt(x, y))
			}
		}
	}
	tmplCacheMu.Lock()
	if existing := tmplByScale[key]; existing != nil {
		t = existing
	} else {
		tmplByScale[key] = t
	}
	tmplCacheMu.Unlock()
	return t
}

// TemplateOptions configures the multi-scale arrow search.
type TemplateOptions struct {
	MinScale, MaxScale, ScaleStep float64
	Stride                        int
	Search                        int // half-size of the window around the rough point
	StopOnScore                   float64
}

// TemplateResult is the best arrow placement across scales; X, Y is the
// centre of the placed template.
type TemplateResult struct {
	X, Y            float64
	Score           float64
	Scale           float64
	ScalesEvaluated int
}

func (o TemplateOptions) scales() []float64 {
	if o.MinScale <= 0 || o.ScaleStep <= 0 || o.MaxScale < o.MinScale {
		return []float64{1}
	}
	var out []float64
	for s := o.MinScale; s <= o.MaxScale+1e-9 && len(out) < 64; s += o.ScaleStep {
		out = append(out, s)
	}
	return out
}

// MatchArrow slides the arrow at every scale over the window around rough and
// scores matched template pixels over template pixels. Scales run in
// parallel; a score at or above StopOnScore ends the search early. Equal
// scores prefer the larger scale, which explains more pixels.
func MatchArrow(m Mask, rough image.Point, opts TemplateOptions) TemplateResult {
	window := image.Rect(rough.X-opts.Search, rough.Y-opts.Search, rough.X+opts.Search, rough.Y+opts.Search).Intersect(m.Area)
	stride := max(1, opts.Stride)
	scales := opts.scales()

	var earlyStop atomic.Bool
	var evaluated atomic.Int64
	results := make(chan TemplateResult, len(scales))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	for _, s := range scales {
		wg.Add(1)
		sem <- struct{}{}
		go func(factor float64) {
			defer wg.Done()
			defer func() { <-sem }()
			if earlyStop.Load() {
				return
			}
			t := scaledArrow(factor)
			if t == nil || len(t.on) == 0 {
				return
			}
			evaluated.Add(1)
			res := slide(m, t, window, stride)
			res.Scale = factor
			if opts.StopOnScore > 0 && res.Score >= opts.StopOnScore {
				earlyStop.Store(true)
			}
			results <- res
		}(s)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	best := TemplateResult{Score: -1}
	for r := range results {
		if r.Score > best.Score || (r.Score == best.Score && r.Scale > best.Scale) {
			best = r
		}
	}
	best.ScalesEvaluated = int(evaluated.Load())
	return best
}

func slide(m Mask, t *boolTemplate, window image.Rectangle, stride int) TemplateResult {
	best := TemplateResult{Score: -1}
	total := float64(len(t.on))
	for y := window.Min.Y - t.H/2; y <= window.Max.Y-t.H/2; y += stride {
		for x := window.Min.X - t.W/2; x <= window.Max.X-t.W/2; x += stride {
			hits := 0
			for _, p := range t.on {
				if m.At(x+p.X, y+p.Y) {
					hits++
				}
			}
			if s := float64(hits) / total; s > best.Score {
				best = TemplateResult{X: float64(x) + float64(t.W)/2, Y: float64(y) + float64(t.H)/2, Score: s}
			}
		}
	}
	return best
}
