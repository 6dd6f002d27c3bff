package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitSquare() []Point {
	return []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

func TestPolygonArea_UnitSquare(t *testing.T) {
	assert.InDelta(t, 1.0, PolygonArea(unitSquare()), 1e-9)
}

func TestPolygonArea_CyclicRotationInvariant(t *testing.T) {
	square := unitSquare()
	for shift := 0; shift < len(square); shift++ {
		rotated := append(append([]Point{}, square[shift:]...), square[:shift]...)
		assert.InDelta(t, 1.0, PolygonArea(rotated), 1e-9, "rotation by %d", shift)
	}
}

func TestPolygonArea_WindingReversalInvariant(t *testing.T) {
	square := unitSquare()
	reversed := make([]Point, len(square))
	for i, p := range square {
		reversed[len(square)-1-i] = p
	}
	assert.InDelta(t, 1.0, PolygonArea(reversed), 1e-9)
}

func TestPolygonArea_DegenerateInput(t *testing.T) {
	assert.Zero(t, PolygonArea(nil))
	assert.Zero(t, PolygonArea([]Point{{X: 1, Y: 1}}))
	assert.Zero(t, PolygonArea([]Point{{X: 0, Y: 0}, {X: 5, Y: 5}}))
}

func TestPolygonArea_CollinearPointsHaveZeroArea(t *testing.T) {
	line := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	assert.Zero(t, PolygonArea(line))
}

func TestPerimeter_SquareClosedAndOpen(t *testing.T) {
	square := unitSquare()
	assert.InDelta(t, 4.0, Perimeter(square, true), 1e-9)
	assert.InDelta(t, 3.0, Perimeter(square, false), 1e-9)
}

func TestPerimeter_DegenerateInput(t *testing.T) {
	assert.Zero(t, Perimeter(nil, true))
	assert.Zero(t, Perimeter([]Point{{X: 3, Y: 4}}, true))
}

func TestPerimeter_TwoPointPolyline(t *testing.T) {
	run := []Point{{X: 0, Y: 0}, {X: 3, Y: 4}}
	assert.InDelta(t, 5.0, Perimeter(run, false), 1e-9)
	// Closing a two-point sequence doubles the single edge.
	assert.InDelta(t, 10.0, Perimeter(run, true), 1e-9)
}

func TestPointToSegmentDistance(t *testing.T) {
	d := PointToSegmentDistance(Point{X: 5, Y: 5}, Point{X: 0, Y: 0}, Point{X: 10, Y: 0})
	assert.InDelta(t, 5.0, d, 1e-9)
}

func TestPointToSegmentDistance_ClampsToEndpoints(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	// Beyond b: closest point is b itself.
	d := PointToSegmentDistance(Point{X: 13, Y: 4}, a, b)
	assert.InDelta(t, 5.0, d, 1e-9)

	// Before a: closest point is a itself.
	d = PointToSegmentDistance(Point{X: -3, Y: -4}, a, b)
	assert.InDelta(t, 5.0, d, 1e-9)
}

func TestPointToSegmentDistance_DegenerateSegment(t *testing.T) {
	p := Point{X: 3, Y: 4}
	a := Point{X: 0, Y: 0}
	assert.InDelta(t, 5.0, PointToSegmentDistance(p, a, a), 1e-9)
}

func TestPointInPolygon(t *testing.T) {
	square := unitSquare()

	assert.True(t, PointInPolygon(Point{X: 0.5, Y: 0.5}, square))
	assert.False(t, PointInPolygon(Point{X: 1.5, Y: 0.5}, square))
	assert.False(t, PointInPolygon(Point{X: 0.5, Y: -0.5}, square))
	assert.False(t, PointInPolygon(Point{X: 0.5, Y: 0.5}, square[:2]))
}

func TestPointInPolygon_Concave(t *testing.T) {
	// U shape: the notch between the prongs is outside.
	u := []Point{
		{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 6},
		{X: 4, Y: 6}, {X: 4, Y: 2}, {X: 2, Y: 2},
		{X: 2, Y: 6}, {X: 0, Y: 6},
	}

	assert.True(t, PointInPolygon(Point{X: 1, Y: 4}, u))
	assert.True(t, PointInPolygon(Point{X: 5, Y: 4}, u))
	assert.False(t, PointInPolygon(Point{X: 3, Y: 4}, u))
}

func TestCentroid(t *testing.T) {
	c := Centroid(unitSquare())
	assert.InDelta(t, 0.5, c.X, 1e-9)
	assert.InDelta(t, 0.5, c.Y, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestBoundingBox(t *testing.T) {
	min, max := BoundingBox([]Point{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}})
	assert.Equal(t, Point{X: -1, Y: 2}, min)
	assert.Equal(t, Point{X: 5, Y: 7}, max)
}

func TestMaskIoU_IdenticalPolygons(t *testing.T) {
	square := unitSquare()
	assert.InDelta(t, 1.0, MaskIoU(square, square), 0.05)
}

func TestMaskIoU_DisjointPolygons(t *testing.T) {
	a := unitSquare()
	b := []Point{{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 11, Y: 11}, {X: 10, Y: 11}}
	assert.Zero(t, MaskIoU(a, b))
}

func TestMaskIoU_HalfOverlap(t *testing.T) {
	a := []Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	b := []Point{{X: 1, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 2}, {X: 1, Y: 2}}

	// Intersection 2, union 6 -> 1/3.
	assert.InDelta(t, 1.0/3.0, MaskIoU(a, b), 0.05)
}

func TestMaskIoU_ZeroAreaRegion(t *testing.T) {
	line := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	assert.Zero(t, MaskIoU(line, unitSquare()))
	assert.Zero(t, MaskIoU(unitSquare(), line))
}

func TestMaskIoU_Deterministic(t *testing.T) {
	a := []Point{{X: 0, Y: 0}, {X: 4, Y: 1}, {X: 3, Y: 5}, {X: 1, Y: 4}}
	b := []Point{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 6}, {X: 2, Y: 6}}

	first := MaskIoU(a, b)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, MaskIoU(a, b))
	}
}
