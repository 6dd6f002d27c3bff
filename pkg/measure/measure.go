package measure

import (
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

// Recalc derives real-world display metrics from a detection's current
// vertex data and the drawing's scale factor (pixels per foot). It is a pure
// function of its inputs: identical vertices, scale, and category always
// produce identical metrics, and the caller merges the result back into the
// detection.
//
// Rooms are closed loops and get area plus perimeter. Walls are open linear
// runs and only get their total run length; wall surface area needs a height
// input owned elsewhere. Openings get the width and height of their bounding
// box, the door/window sizes an estimator reads off the schedule. Unknown
// categories keep their existing metrics.
func Recalc(points []geometry.Point, scale float64, category entity.Category, existing entity.DisplayMetrics) entity.DisplayMetrics {
	switch category {
	case entity.CategoryRoom:
		return entity.DisplayMetrics{
			AreaSqft:    areaToSquareFeet(geometry.PolygonArea(points), scale),
			PerimeterFt: lengthToFeet(geometry.Perimeter(points, true), scale),
		}
	case entity.CategoryWall:
		return entity.DisplayMetrics{
			PerimeterFt: lengthToFeet(geometry.Perimeter(points, false), scale),
		}
	case entity.CategoryOpening:
		min, max := geometry.BoundingBox(points)
		return entity.DisplayMetrics{
			WidthFt:  lengthToFeet(max.X-min.X, scale),
			HeightFt: lengthToFeet(max.Y-min.Y, scale),
		}
	default:
		return existing
	}
}

// areaToSquareFeet converts a pixel area into square feet. An unset scale
// leaves the value in pixel units so in-progress drawings still show
// something meaningful.
func areaToSquareFeet(pixelArea, scale float64) float64 {
	if scale <= 0 {
		return pixelArea
	}
	return pixelArea / (scale * scale)
}

func lengthToFeet(pixelLength, scale float64) float64 {
	if scale <= 0 {
		return pixelLength
	}
	return pixelLength / scale
}
