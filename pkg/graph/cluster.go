package graph

// Cluster is a running centroid of geometrically coincident pins. Each
// cluster identifies one canonical electrical node before wire contraction.
type Cluster struct {
	X, Y  float64
	Count int
}

// Clusterer merges near-coincident pin coordinates into node clusters. The
// accumulator is owned by a single Build invocation and never shared.
type Clusterer struct {
	tolerance2 float64
	clusters   []Cluster
}

// NewClusterer returns a clusterer merging pins within tolerance length units.
func NewClusterer(tolerance float64) *Clusterer {
	return &Clusterer{tolerance2: tolerance * tolerance}
}

// Assign returns the cluster index for pin (x, y). The pin merges into the
// FIRST existing cluster within tolerance, scanning in creation order, and
// shifts that cluster's centroid by running weighted average; otherwise a
// new cluster is opened. First-match is intentional: for degenerate
// geometries (three pins mutually within tolerance along a line) the result
// depends on presentation order, and callers rely on that staying stable.
func (cl *Clusterer) Assign(x, y float64) int {
	for i := range cl.clusters {
		c := &cl.clusters[i]
		dx, dy := x-c.X, y-c.Y
		if dx*dx+dy*dy <= cl.tolerance2 {
			n := c.Count + 1
			c.X = (c.X*float64(c.Count) + x) / float64(n)
			c.Y = (c.Y*float64(c.Count) + y) / float64(n)
			c.Count = n
			return i
		}
	}
	cl.clusters = append(cl.clusters, Cluster{X: x, Y: y, Count: 1})
	return len(cl.clusters) - 1
}

// Len reports the number of clusters created so far.
func (cl *Clusterer) Len() int { return len(cl.clusters) }

// At returns the i-th cluster.
func (cl *Clusterer) At(i int) Cluster { return cl.clusters[i] }
