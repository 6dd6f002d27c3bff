package geometry

// iouGridSize is the number of samples along the longest side of the union
// bounding box when rasterizing polygon masks. Fixed so that IoU values are
// reproducible for identical input.
const iouGridSize = 128

// MaskIoU computes intersection-over-union of two polygon masks. Detection
// regions are non-rectangular, so the ratio is taken over the actual polygon
// areas rather than their bounding boxes: both polygons are rasterized onto a
// shared grid spanning the union of their bounds and cells are counted by
// membership.
//
// Returns 0 when either polygon has fewer than 3 vertices or zero area, or
// when the bounding boxes do not overlap at all.
func MaskIoU(a, b []Point) float64 {
	if PolygonArea(a) == 0 || PolygonArea(b) == 0 {
		return 0
	}

	aMin, aMax := BoundingBox(a)
	bMin, bMax := BoundingBox(b)

	// Cheap reject before rasterizing anything.
	if aMax.X < bMin.X || bMax.X < aMin.X || aMax.Y < bMin.Y || bMax.Y < aMin.Y {
		return 0
	}

	uMin := Point{X: minf(aMin.X, bMin.X), Y: minf(aMin.Y, bMin.Y)}
	uMax := Point{X: maxf(aMax.X, bMax.X), Y: maxf(aMax.Y, bMax.Y)}

	width := uMax.X - uMin.X
	height := uMax.Y - uMin.Y
	if width <= 0 || height <= 0 {
		return 0
	}

	longest := maxf(width, height)
	step := longest / iouGridSize

	cols := int(width/step) + 1
	rows := int(height/step) + 1

	var inA, inB, inBoth int
	for row := 0; row < rows; row++ {
		y := uMin.Y + (float64(row)+0.5)*step
		for col := 0; col < cols; col++ {
			x := uMin.X + (float64(col)+0.5)*step
			sample := Point{X: x, Y: y}

			hitA := PointInPolygon(sample, a)
			hitB := PointInPolygon(sample, b)

			if hitA {
				inA++
			}
			if hitB {
				inB++
			}
			if hitA && hitB {
				inBoth++
			}
		}
	}

	union := inA + inB - inBoth
	if union == 0 {
		return 0
	}

	return float64(inBoth) / float64(union)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
