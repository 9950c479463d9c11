// Package scan runs the user-triggered item scans and the periodic state
// tick. Every entry point completes with a typed result; recognition
// failures degrade through fallbacks and end, at worst, in a placeholder.
//
// Locking: the name, icon and tooltip scans each own a lock, ranked in that
// order. A chain holding a lock may only take higher-ranked ones; name scan
// falls back to tooltip scan by acquiring the tooltip lock, while tooltip scan
// falls back to icon scan by calling the icon implementation directly under
// its own lock. Taking the icon lock there would invert the order against a
// concurrent icon scan, so it is never done. The tick is guarded by an atomic
// in-flight flag instead of a lock: an overlapping tick is skipped.
package scan

import (
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/iconhash"
	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/segment"
	"github.com/soocke/loot-lens-go/domain/textmatch"
	"github.com/soocke/loot-lens-go/domain/uistate"
)

// Publisher receives every result the orchestrator produces.
type Publisher interface {
	Publish(ev events.Event)
}

// Deps are the collaborators of an Orchestrator. Source is required; the
// rest may be nil, in which case the corresponding step finds nothing.
type Deps struct {
	Source     capture.Source
	Pointer    func() (image.Point, bool)
	Reader     ocr.TextReader
	Matcher    *textmatch.Matcher
	Icons      *iconhash.Index
	Catalog    *catalog.Store
	Classifier *uistate.Classifier
	Extractor  *uistate.Extractor
	Sink       Publisher
	Logger     *slog.Logger
	Config     *config.Config
	Now        func() time.Time
}

// Status is the latest committed view of the game, for consumers that poll.
type Status struct {
	State      uistate.State             `json:"state"`
	Since      time.Time                 `json:"since"`
	Raw        uistate.State             `json:"raw"`
	Map        string                    `json:"map,omitempty"`
	Marker     *locate.Detection         `json:"marker,omitempty"`
	Levels     map[string]int            `json:"levels,omitempty"`
	Blueprints []string                  `json:"blueprints,omitempty"`
	Tracked    []uistate.TrackedResource `json:"tracked,omitempty"`
	LastScan   *events.ScanResult        `json:"last_scan,omitempty"`
}

// Orchestrator owns the scan locks, the tick flag and the state machine.
type Orchestrator struct {
	src        capture.Source
	pointer    func() (image.Point, bool)
	reader     ocr.TextReader
	matcher    *textmatch.Matcher
	icons      *iconhash.Index
	catalog    *catalog.Store
	classifier *uistate.Classifier
	extractor  *uistate.Extractor
	sink       Publisher
	logger     *slog.Logger
	cfg        *config.Config
	now        func() time.Time

	tooltipOpts   segment.TooltipOptions
	windowOpts    iconhash.WindowOptions
	tooltipPolicy iconhash.Policy
	cursorPolicy  iconhash.Policy
	rectPolicy    iconhash.Policy

	nameLock    *rankedLock
	iconLock    *rankedLock
	tooltipLock *rankedLock

	ticking    atomic.Bool
	wg         sync.WaitGroup
	machine    *uistate.Machine
	cooldowns  *uistate.Cooldowns
	levels     uistate.Debouncer
	blueprints uistate.Debouncer
	tracked    uistate.Debouncer
	gate       *frameGate

	mu        sync.Mutex
	status    Status
	lastClass uistate.Classification
	hasClass  bool

	stats counters
}

// New creates an orchestrator.
func New(d Deps) *Orchestrator {
	cfg := d.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := d.Catalog
	if store == nil {
		store = catalog.NewStore(nil)
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	o := &Orchestrator{
		src:        d.Source,
		pointer:    d.Pointer,
		reader:     d.Reader,
		matcher:    d.Matcher,
		icons:      d.Icons,
		catalog:    store,
		classifier: d.Classifier,
		extractor:  d.Extractor,
		sink:       d.Sink,
		logger:     d.Logger,
		cfg:        cfg,
		now:        now,

		tooltipOpts: segment.TooltipOptionsFrom(cfg),
		windowOpts: iconhash.WindowOptions{
			MinSize:       cfg.IconWindowMin,
			MaxSize:       cfg.IconWindowMax,
			Step:          cfg.IconWindowStep,
			Stride:        cfg.IconWindowStride,
			MinContrast:   cfg.IconContrastMin,
			MaxCandidates: cfg.IconMaxCandidates,
		},
		tooltipPolicy: iconhash.Policy{MaxDistance: cfg.TooltipIconMaxDistance},
		cursorPolicy:  iconhash.Policy{MaxDistance: cfg.CursorIconMaxDistance, MinScore: cfg.CursorIconMinScore, Rotations: true},
		rectPolicy:    iconhash.Policy{MaxDistance: cfg.RectIconMaxDistance},

		nameLock:    newRankedLock(rankName, "name"),
		iconLock:    newRankedLock(rankIcon, "icon"),
		tooltipLock: newRankedLock(rankTooltip, "tooltip"),

		machine: uistate.NewMachine(cfg.StateRepeat),
		cooldowns: uistate.NewCooldowns(map[uistate.Extraction]time.Duration{
			uistate.ExtractWorkbench:  seconds(cfg.WorkbenchCooldownSeconds),
			uistate.ExtractBlueprints: seconds(cfg.BlueprintCooldownSeconds),
			uistate.ExtractTracked:    seconds(cfg.TrackedCooldownSeconds),
			uistate.ExtractMap:        seconds(cfg.MapCooldownSeconds),
		}),
	}
	if cfg.FrameGate {
		o.gate = newFrameGate(cfg.FrameGateDistance)
	}
	return o
}

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

// Wait blocks until every dispatched scan and tick has finished.
func (o *Orchestrator) Wait() { o.wg.Wait() }

// Status returns a copy of the latest committed view.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.status
	if s.Marker != nil {
		m := *s.Marker
		s.Marker = &m
	}
	if s.Levels != nil {
		lv := make(map[string]int, len(s.Levels))
		for k, v := range s.Levels {
			lv[k] = v
		}
		s.Levels = lv
	}
	s.Blueprints = append([]string(nil), s.Blueprints...)
	s.Tracked = append([]uistate.TrackedResource(nil), s.Tracked...)
	if s.LastScan != nil {
		r := *s.LastScan
		s.LastScan = &r
	}
	return s
}

func (o *Orchestrator) publish(ev events.Event) {
	if o.sink != nil {
		o.sink.Publish(ev)
	}
}

// dispatch runs fn on a worker goroutine tracked by Wait.
func (o *Orchestrator) dispatch(name string, fn func()) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.recoverLog(name + " panic")
		fn()
	}()
}

func (o *Orchestrator) recoverLog(msg string) {
	if r := recover(); r != nil {
		o.logPanic(msg, r)
	}
}

func (o *Orchestrator) logPanic(msg string, r any) {
	o.stats.panics.Add(1)
	if o.logger != nil {
		o.logger.Error(msg, "error", r, "stack", string(debug.Stack()))
	}
}

// internalError stands in for a recovered panic in a scan result.
type internalError struct{ v any }

func (e internalError) Error() string { return fmt.Sprintf("internal error: %v", e.v) }
