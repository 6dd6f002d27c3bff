package analysis

import (
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
	"time"
)

type AnalyzeRequest struct {
	Types        []string `json:"types" validate:"omitempty,dive,oneof=rooms walls openings"`
	Confidence   *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Overlap      *float64 `json:"overlap" validate:"omitempty,gte=0,lte=1"`
	IoUThreshold float64  `json:"iou_threshold" validate:"omitempty,gt=0,lte=1"`
}

type UpdateVerticesRequest struct {
	Vertices []geometry.Point `json:"vertices" validate:"required,min=2"`
}

type RunResponse struct {
	ID         string                       `json:"id"`
	DrawingID  string                       `json:"drawing_id"`
	Sequence   int64                        `json:"sequence"`
	Detections []entity.ReconciledDetection `json:"detections"`
	Skipped    int                          `json:"skipped"`
	CreatedAt  time.Time                    `json:"created_at"`
}

type DetectionResponse struct {
	Detection entity.ReconciledDetection `json:"detection"`
	RunID     string                     `json:"run_id"`
	DrawingID string                     `json:"drawing_id"`
}
