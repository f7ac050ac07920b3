package types

// Point is a projected planar coordinate (metres).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is a closed polygon boundary. The first vertex is not repeated; the
// closing edge from the last vertex back to the first is implied.
type Ring []Point

// Contains reports whether p falls inside the ring, using the even-odd
// crossing rule. Points exactly on an edge may land on either side.
func (r Ring) Contains(p Point) bool {
	inside := false
	n := len(r)
	if n < 3 {
		return false
	}
	j := n - 1
	for i := 0; i < n; i++ {
		if (r[i].Y > p.Y) != (r[j].Y > p.Y) {
			x := r[j].X + (p.Y-r[i].Y)/(r[j].Y-r[i].Y)*(r[j].X-r[i].X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the ring.
func (r Ring) Bounds() (minX, minY, maxX, maxY float64) {
	if len(r) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = r[0].X, r[0].X
	minY, maxY = r[0].Y, r[0].Y
	for _, p := range r[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY
}
