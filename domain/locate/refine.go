package locate

import (
	"image"

	"github.com/soocke/loot-lens-go/domain/failure"
)

// Strategy names how a marker position was obtained.
type Strategy int

const (
	StrategyLocationName Strategy = iota + 1
	StrategyCluster
	StrategyTemplate
	StrategyCentroid
)

func (s Strategy) String() string {
	switch s {
	case StrategyLocationName:
		return "location_name"
	case StrategyCluster:
		return "cluster"
	case StrategyTemplate:
		return "template"
	case StrategyCentroid:
		return "centroid"
	default:
		return "none"
	}
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// RefineOptions are the marker refinement thresholds.
type RefineOptions struct {
	MinPixels         int
	ClusterRadius     float64
	ClusterMinMembers int
	Template          TemplateOptions
	TemplateMinScore  float64
}

// Refined is a refined marker position in frame-local pixels.
type Refined struct {
	X, Y            float64
	Confidence      float64
	Strategy        Strategy
	ScalesEvaluated int
}

// Refine escalates from the dominant cluster centroid to the multi-scale
// arrow match to the raw centroid of the mask. Masks with fewer than
// MinPixels pixels are not found.
func Refine(m Mask, rough image.Point, opts RefineOptions) (Refined, error) {
	const op = "marker refine"
	if m.Count < opts.MinPixels {
		return Refined{}, failure.NotFoundf(op, "%d marker pixels", m.Count)
	}
	pts := m.Points()
	if cl, ok := DominantCluster(pts, opts.ClusterRadius, opts.ClusterMinMembers); ok {
		return Refined{X: cl.X, Y: cl.Y, Confidence: float64(cl.Members) / float64(cl.Total), Strategy: StrategyCluster}, nil
	}
	tr := MatchArrow(m, rough, opts.Template)
	if tr.Score >= opts.TemplateMinScore {
		return Refined{X: tr.X, Y: tr.Y, Confidence: tr.Score, Strategy: StrategyTemplate, ScalesEvaluated: tr.ScalesEvaluated}, nil
	}
	cx, cy := Centroid(pts)
	return Refined{X: cx, Y: cy, Confidence: 0.3, Strategy: StrategyCentroid, ScalesEvaluated: tr.ScalesEvaluated}, nil
}
