package locate

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// maxClusterPoints bounds the O(n²) density pass; larger masks are
// subsampled evenly.
const maxClusterPoints = 2000

// Cluster is a dense group of mask pixels.
type Cluster struct {
	X, Y    float64
	Members int
	Total   int
}

// DominantCluster finds the densest pixel (most neighbours within radius)
// and gathers its neighbourhood. It reports false unless the cluster has at
// least minMembers pixels and holds the majority of the mask.
func DominantCluster(pts []image.Point, radius float64, minMembers int) (Cluster, bool) {
	total := len(pts)
	if total == 0 {
		return Cluster{}, false
	}
	sample := pts
	if len(pts) > maxClusterPoints {
		step := len(pts) / maxClusterPoints
		sample = make([]image.Point, 0, maxClusterPoints+1)
		for i := 0; i < len(pts); i += step {
			sample = append(sample, pts[i])
		}
	}
	r2 := int(radius * radius)
	center, best := 0, -1
	for i, p := range sample {
		n := 0
		for _, q := range sample {
			if distSq(p, q) <= r2 {
				n++
			}
		}
		if n > best {
			center, best = i, n
		}
	}
	c := sample[center]
	xs := make([]float64, 0, best)
	ys := make([]float64, 0, best)
	for _, q := range pts {
		if distSq(c, q) <= r2 {
			xs = append(xs, float64(q.X))
			ys = append(ys, float64(q.Y))
		}
	}
	cl := Cluster{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Members: len(xs), Total: total}
	if cl.Members < minMembers || cl.Members*2 <= total {
		return cl, false
	}
	return cl, true
}

// Centroid returns the mean position of pts.
func Centroid(pts []image.Point) (float64, float64) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = float64(p.X), float64(p.Y)
	}
	return stat.Mean(xs, nil), stat.Mean(ys, nil)
}

func distSq(a, b image.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
