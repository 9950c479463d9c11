package debug

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/scan"
)

// Scanner is the orchestrator surface the server drives.
type Scanner interface {
	Status() scan.Status
	Stats() scan.Stats
	PointerPosition() (image.Point, bool)
	RunIconScan(p image.Point) events.ScanResult
	RunTooltipScan(p image.Point) events.ScanResult
	RunNameScan() events.ScanResult
	RunIconScanRect(r image.Rectangle) events.ScanResult
	RunTick() (scan.TickReport, bool)
}

var _ Scanner = (*scan.Orchestrator)(nil)

// Server serves the debug endpoints:
//
//	GET  /debug/state             committed state, marker, levels, last scan
//	GET  /debug/stats             orchestrator, runtime and extra counters
//	GET  /debug/capture.png       downscaled full-screen capture (?max=px)
//	POST /debug/scan/{kind}       run a scan (?x=&y= or ?x=&y=&w=&h= for icon_rect)
//	POST /debug/tick              run one state pass
//	POST /debug/reload            reload the catalog
type Server struct {
	Scanner Scanner
	Source  capture.Source        // optional; enables capture.png
	Reload  func() error          // optional; enables reload
	Extra   map[string]func() any // optional stats sections
	Logger  *slog.Logger
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/debug", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/stats", s.handleStats)
		r.Get("/capture.png", s.handleCapture)
		r.Post("/scan/{kind}", s.handleScan)
		r.Post("/tick", s.handleTick)
		r.Post("/reload", s.handleReload)
	})
	return r
}

// Start listens on addr and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && s.Logger != nil {
			s.Logger.Error("debug server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if s.Logger != nil {
		s.Logger.Info("debug server listening", "addr", ln.Addr().String())
	}
	return ln.Addr(), nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Scanner.Status())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"scan":    s.Scanner.Stats(),
		"runtime": ReadRuntime(),
	}
	for name, fn := range s.Extra {
		if fn != nil {
			out[name] = fn()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	if s.Source == nil {
		http.Error(w, "capture not available", http.StatusNotFound)
		return
	}
	limit := 960
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid max", http.StatusBadRequest)
			return
		}
		limit = n
	}
	fb, err := capture.CaptureFull(s.Source)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	img := imaging.Fit(fb.Image(fb.Bounds()), limit, limit, imaging.Box)
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil && s.Logger != nil {
		s.Logger.Warn("capture.png encode failed", "error", err)
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	q := r.URL.Query()
	var res events.ScanResult
	switch kind {
	case "name":
		res = s.Scanner.RunNameScan()
	case "icon", "tooltip":
		p, ok, err := queryPoint(q.Get("x"), q.Get("y"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !ok {
			if p, ok = s.Scanner.PointerPosition(); !ok {
				http.Error(w, "x and y required: pointer position unavailable", http.StatusBadRequest)
				return
			}
		}
		if kind == "icon" {
			res = s.Scanner.RunIconScan(p)
		} else {
			res = s.Scanner.RunTooltipScan(p)
		}
	case "icon_rect":
		p, ok, err := queryPoint(q.Get("x"), q.Get("y"))
		size, sok, serr := queryPoint(q.Get("w"), q.Get("h"))
		if err != nil || serr != nil || !ok || !sok || size.X <= 0 || size.Y <= 0 {
			http.Error(w, "x, y, w and h required", http.StatusBadRequest)
			return
		}
		res = s.Scanner.RunIconScanRect(image.Rectangle{Min: p, Max: p.Add(size)})
	default:
		http.Error(w, "unknown scan kind "+strconv.Quote(kind), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{ScanResult: res, Label: res.Label()})
}

type scanResponse struct {
	events.ScanResult
	Label string `json:"label"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	rep, ran := s.Scanner.RunTick()
	if !ran {
		http.Error(w, "tick already running", http.StatusConflict)
		return
	}
	if rep.Panicked {
		http.Error(w, "tick panicked; see log", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.Reload == nil {
		http.Error(w, "reload not available", http.StatusNotFound)
		return
	}
	if err := s.Reload(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryPoint parses an optional coordinate pair; ok is false when both are empty.
func queryPoint(xs, ys string) (image.Point, bool, error) {
	if xs == "" && ys == "" {
		return image.Point{}, false, nil
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return image.Point{}, false, fmt.Errorf("invalid coordinate %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return image.Point{}, false, fmt.Errorf("invalid coordinate %q", ys)
	}
	return image.Pt(x, y), true, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
