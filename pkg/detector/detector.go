package detector

import (
	"EstimAgent/internal/entity"
	"golang.org/x/net/context"
)

// DetectionType selects which model families run for an analysis request.
type DetectionType string

const (
	RoomDetection    DetectionType = "rooms"
	WallDetection    DetectionType = "walls"
	OpeningDetection DetectionType = "openings"
)

// AllDetectionTypes is the default when a request does not narrow the scope.
var AllDetectionTypes = []DetectionType{RoomDetection, WallDetection, OpeningDetection}

// Options are tuning parameters passed through to the underlying models.
type Options struct {
	Types      []DetectionType
	Confidence *float64
	Overlap    *float64
}

// Detector produces a detection list for a blueprint image. The reconciler
// is source-agnostic, so additional detectors can be added without touching
// the merge logic.
type Detector interface {
	Source() entity.Source
	Detect(ctx context.Context, image []byte, opts Options) ([]entity.Detection, error)
}

func wantsType(opts Options, t DetectionType) bool {
	if len(opts.Types) == 0 {
		return true
	}
	for _, want := range opts.Types {
		if want == t {
			return true
		}
	}
	return false
}
