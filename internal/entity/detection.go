package entity

import (
	"strings"

	"EstimAgent/pkg/geometry"
)

// Category is the semantic kind of a detection, deciding which derived
// metrics apply: rooms get area and perimeter, walls get linear run length,
// openings are counted rather than measured.
type Category string

const (
	CategoryRoom    Category = "room"
	CategoryWall    Category = "wall"
	CategoryOpening Category = "opening"
	CategoryUnknown Category = "unknown"
)

// CategoryFromClass maps a detector class label onto a Category.
func CategoryFromClass(class string) Category {
	switch {
	case containsFold(class, "room"):
		return CategoryRoom
	case containsFold(class, "wall"):
		return CategoryWall
	case containsFold(class, "door"), containsFold(class, "window"):
		return CategoryOpening
	default:
		return CategoryUnknown
	}
}

// Source identifies which detector produced a detection.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
)

// BBox is an axis-aligned bounding box in pixel space, center-based the way
// the hosted detector reports it.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Polygon returns the box as a four-vertex polygon so box-only detections
// (doors, windows) share the mask code paths.
func (b BBox) Polygon() []geometry.Point {
	halfW := b.W / 2
	halfH := b.H / 2
	return []geometry.Point{
		{X: b.X - halfW, Y: b.Y - halfH},
		{X: b.X + halfW, Y: b.Y - halfH},
		{X: b.X + halfW, Y: b.Y + halfH},
		{X: b.X - halfW, Y: b.Y + halfH},
	}
}

// Detection is one object reported by a single detector: a class label, a
// confidence in [0,1], and a region given either as a polygon mask or as a
// bounding box.
type Detection struct {
	ID         string           `json:"id"`
	Class      string           `json:"class"`
	Category   Category         `json:"category"`
	Confidence float64          `json:"confidence"`
	Source     Source           `json:"source"`
	Mask       []geometry.Point `json:"mask,omitempty"`
	BBox       *BBox            `json:"bbox,omitempty"`
	Display    DisplayMetrics   `json:"display"`
}

// Region returns the detection's polygon region: the mask when present,
// otherwise the bounding box as a polygon. Nil when the detection carries
// neither.
func (d Detection) Region() []geometry.Point {
	if len(d.Mask) > 0 {
		return d.Mask
	}
	if d.BBox != nil {
		return d.BBox.Polygon()
	}
	return nil
}

// Provenance records which detector source(s) contributed to a reconciled
// detection.
type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceMerged    Provenance = "merged"
)

// ReconciledDetection is the single canonical detection kept per physical
// object after merging the detector result lists. Each raw detection
// contributes to at most one reconciled detection.
type ReconciledDetection struct {
	Detection
	Provenance Provenance `json:"provenance"`
	Sources    []Source   `json:"sources"`
}

// DisplayMetrics are derived, recomputable real-world measurements attached
// to a detection. They are a pure function of the vertex data and scale
// factor and are recomputed whenever either changes.
type DisplayMetrics struct {
	AreaSqft    float64 `json:"area_sqft,omitempty"`
	PerimeterFt float64 `json:"perimeter_ft,omitempty"`
	WidthFt     float64 `json:"width_ft,omitempty"`
	HeightFt    float64 `json:"height_ft,omitempty"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
