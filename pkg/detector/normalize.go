package detector

import (
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
	"github.com/google/uuid"
)

// rawPrediction is the wire shape shared by both detector backends: a class
// label, a confidence, a center-based bounding box, and optionally a polygon
// mask for segmentation models.
type rawPrediction struct {
	Class      string           `json:"class"`
	Label      string           `json:"label"`
	Confidence float64          `json:"confidence"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Points     []geometry.Point `json:"points"`
}

type rawResponse struct {
	Predictions []rawPrediction `json:"predictions"`
	Error       string          `json:"error"`
}

// normalize converts raw model predictions into detections. When
// filterClasses is non-empty, predictions outside the allow list are dropped
// (the door/window model also reports rooms and walls, which belong to the
// dedicated models). Predictions without a class label are dropped here;
// region-level validity is the reconciler's concern.
func normalize(preds []rawPrediction, source entity.Source, filterClasses []string) []entity.Detection {
	out := make([]entity.Detection, 0, len(preds))

	for _, p := range preds {
		class := p.Class
		if class == "" {
			class = p.Label
		}
		if class == "" {
			continue
		}

		if len(filterClasses) > 0 && !classAllowed(class, filterClasses) {
			continue
		}

		d := entity.Detection{
			ID:         uuid.NewString(),
			Class:      class,
			Category:   entity.CategoryFromClass(class),
			Confidence: p.Confidence,
			Source:     source,
		}

		if len(p.Points) > 0 {
			d.Mask = p.Points
		} else if p.Width > 0 && p.Height > 0 {
			d.BBox = &entity.BBox{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
		}

		out = append(out, d)
	}

	return out
}

func classAllowed(class string, allowed []string) bool {
	for _, a := range allowed {
		if a == class {
			return true
		}
	}
	return false
}
