package geometry

import (
	"math"
)

// Point is a single vertex in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PolygonArea computes the area enclosed by the vertex sequence using the
// shoelace formula. The sequence is treated as a closed loop (last vertex
// connects back to the first). Returns 0 for fewer than 3 points. The result
// is independent of winding direction.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	area := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}

	return math.Abs(area) / 2
}

// Perimeter sums consecutive Euclidean distances along the vertex sequence.
// When closed is true the last->first edge is included (rooms are closed
// loops); when false it is not (wall runs are open polylines). Returns 0 for
// fewer than 2 points.
func Perimeter(points []Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}

	perimeter := 0.0
	for i := 0; i < len(points)-1; i++ {
		perimeter += Distance(points[i], points[i+1])
	}

	if closed {
		perimeter += Distance(points[len(points)-1], points[0])
	}

	return perimeter
}

// Distance is the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointToSegmentDistance returns the distance from p to the closest point on
// the segment [a,b]. A degenerate segment (a == b) reduces to point-to-point
// distance.
func PointToSegmentDistance(p, a, b Point) float64 {
	abX := b.X - a.X
	abY := b.Y - a.Y

	lenSq := abX*abX + abY*abY
	if lenSq == 0 {
		return Distance(p, a)
	}

	t := ((p.X-a.X)*abX + (p.Y-a.Y)*abY) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := Point{X: a.X + t*abX, Y: a.Y + t*abY}
	return Distance(p, closest)
}

// PointInPolygon reports whether p lies inside the polygon using ray
// casting. Points exactly on an edge may fall on either side; callers that
// need a tolerant test should pair this with a centroid fallback.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Centroid returns the arithmetic mean of the vertex positions. Returns the
// zero point for an empty sequence.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}
}

// BoundingBox returns the axis-aligned bounds of the vertex sequence.
func BoundingBox(points []Point) (min, max Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}

	min, max = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}

	return min, max
}
