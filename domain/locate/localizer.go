package locate

import (
	"image"
	"log/slog"
	"strings"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/failure"
	"github.com/soocke/loot-lens-go/domain/ocr"
)

// Detection is a player marker position in map fractions.
type Detection struct {
	XPct       float64  `json:"x_pct"`
	YPct       float64  `json:"y_pct"`
	Confidence float64  `json:"confidence"`
	Strategy   Strategy `json:"strategy"`
	Location   string   `json:"location,omitempty"`
}

// Options configure the localizer.
type Options struct {
	Refine           RefineOptions
	LocationMinScore float64
}

// OptionsFrom builds options from cfg; nil uses defaults.
func OptionsFrom(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Options{
		Refine: RefineOptions{
			MinPixels:         cfg.MarkerMinPixels,
			ClusterRadius:     cfg.ClusterRadius,
			ClusterMinMembers: cfg.ClusterMinMembers,
			Template: TemplateOptions{
				MinScale:    cfg.TemplateMinScale,
				MaxScale:    cfg.TemplateMaxScale,
				ScaleStep:   cfg.TemplateScaleStep,
				Stride:      cfg.TemplateStride,
				Search:      cfg.TemplateSearch,
				StopOnScore: 0.95,
			},
			TemplateMinScore: cfg.TemplateMinScore,
		},
		LocationMinScore: cfg.LocationMinScore,
	}
}

// locationPSMs are tried in order; their texts are scored together.
var locationPSMs = []ocr.PSM{ocr.PSMSparse, ocr.PSMSingleBlock, ocr.PSMAuto}

// Localizer finds the player on the map view.
type Localizer struct {
	opts   Options
	reader ocr.TextReader
	logger *slog.Logger
}

// NewLocalizer creates a localizer. A nil reader disables the location-name
// method.
func NewLocalizer(opts Options, reader ocr.TextReader, logger *slog.Logger) *Localizer {
	return &Localizer{opts: opts, reader: reader, logger: logger}
}

// Locate tries location labels first and marker pixels second.
func (l *Localizer) Locate(fb capture.FrameBuffer, area image.Rectangle, m catalog.Map) (Detection, error) {
	if d, err := l.LocateByName(fb, area, m); err == nil {
		return d, nil
	} else if l.logger != nil {
		l.logger.Debug("location name not found", "map", m.ID, "reason", failure.Reason(err))
	}
	return l.LocateMarker(fb, area)
}

// LocateByName OCRs area under several segmentation modes and picks the best
// scoring known location of m.
func (l *Localizer) LocateByName(fb capture.FrameBuffer, area image.Rectangle, m catalog.Map) (Detection, error) {
	const op = "location name"
	if l.reader == nil || len(m.Locations) == 0 {
		return Detection{}, failure.NotFound(op, "no locations to match")
	}
	var texts []string
	for _, psm := range locationPSMs {
		if t := strings.TrimSpace(l.reader.Read(fb, area, ocr.Options{Whitelist: ocr.Letters, PSM: psm})); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return Detection{}, failure.NotFound(op, "no map text")
	}
	loc, score, ok := BestLocation(strings.Join(texts, "\n"), m, l.opts.LocationMinScore)
	if !ok {
		return Detection{}, failure.LowConfidence(op, score, l.opts.LocationMinScore)
	}
	return Detection{
		XPct:       loc.XPct,
		YPct:       loc.YPct,
		Confidence: min(1, score/10),
		Strategy:   StrategyLocationName,
		Location:   loc.Name,
	}, nil
}

// LocateMarker segments marker-coloured pixels in area and refines them.
func (l *Localizer) LocateMarker(fb capture.FrameBuffer, area image.Rectangle) (Detection, error) {
	area = area.Intersect(fb.Bounds())
	if area.Empty() {
		return Detection{}, failure.NotFound("marker", "empty map area")
	}
	mask := BuildMask(fb, MarkerColor, area)
	rough := area.Min.Add(image.Pt(area.Dx()/2, area.Dy()/2))
	if mask.Count > 0 {
		cx, cy := Centroid(mask.Points())
		rough = image.Pt(int(cx), int(cy))
	}
	r, err := Refine(mask, rough, l.opts.Refine)
	if err != nil {
		return Detection{}, err
	}
	if l.logger != nil {
		l.logger.Debug("marker refined", "strategy", r.Strategy.String(), "confidence", r.Confidence)
	}
	return Detection{
		XPct:       (r.X - float64(area.Min.X)) / float64(area.Dx()),
		YPct:       (r.Y - float64(area.Min.Y)) / float64(area.Dy()),
		Confidence: r.Confidence,
		Strategy:   r.Strategy,
	}, nil
}
